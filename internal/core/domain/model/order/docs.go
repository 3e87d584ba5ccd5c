// Package order provides the Order aggregate of the order management service.
// An order is either a purchase order (goods coming from a supplier into a
// destination warehouse) or a sale order (goods leaving an origin warehouse for a
// customer).
//
// The package includes:
//   - Order: the aggregate root holding identity, references, totals, lines and lifecycle status
//   - Line: an immutable order line created together with its order
//   - Status and Kind: the lifecycle state machine and the order kind
//   - Event: an append-only audit record owned by the order
//   - DomainEvent: a status change buffered until the unit of work commits
//
// Key business rules:
//   - Exactly one reference set is populated and it matches the kind
//   - Orders are created in DRAFT and auto-approved by the create operation
//   - Only purchase orders can be received, only sale orders can be dispatched
//   - RECEIVED, DISPATCHED and CANCELLED orders cannot be cancelled
//   - Totals are applied once, while the order is still a draft
package order
