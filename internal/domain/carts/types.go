package carts

import (
	"time"

	"pawmart/internal/domain/products"
)

// DefaultTTL matches the session window: carts live 7 days (604800s),
// refreshed on every write.
const DefaultTTL = 7 * 24 * time.Hour

// Pricing holds the derived-total knobs. These values are wire-compatible
// with the existing storefront and must not drift.
type Pricing struct {
	TaxRate               float64
	FreeShippingThreshold float64
	FlatShippingFee       float64
}

var DefaultPricing = Pricing{
	TaxRate:               0.08,
	FreeShippingThreshold: 50.00,
	FlatShippingFee:       10.00,
}

type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Items     []CartItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Shipping  float64    `json:"shipping"`
	Total     float64    `json:"total"`
	Currency  string     `json:"currency"`
	ExpiresAt time.Time  `json:"expiresAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is a line entry owned by its cart, never addressable on its own.
// Product is a display-time denormalization; only PriceAtTime survives
// persistence.
type CartItem struct {
	ID          string            `json:"id"`
	CartID      string            `json:"cartId"`
	ProductID   string            `json:"productId"`
	Product     *products.Product `json:"product,omitempty"`
	Quantity    int               `json:"quantity"`
	PriceAtTime float64           `json:"priceAtTime"`
	Subtotal    float64           `json:"subtotal"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// OrderData is the read-only projection handed to the order boundary.
type OrderData struct {
	Items    []CartItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Shipping float64    `json:"shipping"`
	Total    float64    `json:"total"`
	Currency string     `json:"currency"`
}
