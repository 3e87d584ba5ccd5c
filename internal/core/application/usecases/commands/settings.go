package commands

import "time"

// Settings are the application values command handlers depend on.
type Settings struct {
	// DefaultPurchaseLeadDays is used when no supplier lead time resolves.
	DefaultPurchaseLeadDays int
	// DefaultSaleLeadDays is used when a sale order has no delivery date.
	DefaultSaleLeadDays int
	// Currency of purchase orders created in procurement.
	Currency string
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

func DefaultSettings() Settings {
	return Settings{
		DefaultPurchaseLeadDays: 7,
		DefaultSaleLeadDays:     1,
		Currency:                "COP",
	}
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
