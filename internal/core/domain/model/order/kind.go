package order

import (
	"fmt"

	"orders/internal/pkg/errs"
)

// Kind distinguishes purchase orders from sale orders.
type Kind string

const (
	Purchase Kind = "PURCHASE"
	Sale     Kind = "SALE"
)

func (k Kind) Validate() error {
	switch k {
	case Purchase, Sale:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not PURCHASE or SALE", string(k)))
}

func (k Kind) String() string {
	return string(k)
}

// CodePrefix is the prefix of human-readable order codes.
func (k Kind) CodePrefix() string {
	if k == Purchase {
		return "PO"
	}
	return "SO"
}
