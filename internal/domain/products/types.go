package products

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is the catalog snapshot consumed by the cart flow. Price is the
// list price at read time; carts copy it into priceAtTime on add.
type Product struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	Currency      string     `json:"currency"`
	SKU           string     `json:"sku"`
	StockQuantity int        `json:"stockQuantity"`
	ImageURLs     []string   `json:"imageUrls"`
	ThumbnailURL  string     `json:"thumbnailUrl,omitempty"`
	Categories    []Category `json:"categories,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
