// Package audit writes the append-only audit trail of orders.
//
// Every entry is normalized into one Record shape, serialized to JSON and stored
// as an order.Event; the same record is logged through zap. Serialization
// failures fall back to a minimal {"detail": "..."} payload and never reach the
// caller. Persistence failures do, so that the surrounding transaction fails.
package audit
