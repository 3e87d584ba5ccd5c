// Package services provides domain services that compute values spanning an
// order and its lines.
//
// The package includes:
//   - TotalsCalculator: line amounts, discounts, taxes and order aggregates
//
// Arithmetic is exact decimal; percentages are divided by 100 with a decimal
// shift, so no precision is lost before the repository rounds to the stored scale.
package services
