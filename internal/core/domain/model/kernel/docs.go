// Package kernel provides the shared primitives of the order domain.
//
// The package includes:
//   - UUID: a validated identifier value object used for orders, lines, warehouses and products
//   - Date helpers: commitment dates are calendar days in UTC, never instants
//
// Values in this package are immutable and safe for concurrent use.
package kernel
