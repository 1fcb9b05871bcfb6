package pricing

import "context"

type Price struct {
	AmountCents int64
	Currency    string
}

// Catalog is a static stand-in for the product catalog service: it
// resolves a product to a price, falling back to a default when the
// product is not listed.
type Catalog struct {
	prices   map[string]Price
	fallback Price
}

func NewCatalog(prices map[string]Price, fallback Price) *Catalog {
	cp := make(map[string]Price, len(prices))
	for id, p := range prices {
		cp[id] = p
	}
	return &Catalog{prices: cp, fallback: fallback}
}

// DefaultCatalog charges a flat 100.00 USD for any product.
func DefaultCatalog() *Catalog {
	return NewCatalog(nil, Price{AmountCents: 100_00, Currency: "USD"})
}

func (c *Catalog) Price(_ context.Context, productID string) (Price, error) {
	if p, ok := c.prices[productID]; ok {
		return p, nil
	}
	return c.fallback, nil
}
