package cart

import "context"

// Cart maps product id to a positive quantity.
type Cart map[string]int

func (c Cart) Count() int {
	n := 0
	for _, q := range c {
		n += q
	}
	return n
}

// Store keeps carts keyed by session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	// Add increments the quantity of productID by one, creating the cart if needed.
	Add(ctx context.Context, sessionID, productID string) error
	// Remove drops the product entirely.
	Remove(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
}
