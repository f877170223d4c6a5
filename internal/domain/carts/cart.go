package carts

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// New builds an empty USD cart for a session with a fresh 7-day expiry.
func New(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        "cart_" + randomHex(16),
		SessionID: sessionID,
		Items:     []CartItem{},
		Currency:  "USD",
		ExpiresAt: now.Add(DefaultTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewItemID returns an "item_"-prefixed random hex id.
func NewItemID() string {
	return "item_" + randomHex(16)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("carts: crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// AddItem appends the item, or merges quantities when the product is already
// in the cart. On merge the existing item's priceAtTime wins: price is locked
// to the first add, whatever the new item carries.
func (c *Cart) AddItem(item CartItem, p Pricing) {
	now := time.Now().UTC()
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].Subtotal = round2(c.Items[i].PriceAtTime * float64(c.Items[i].Quantity))
			c.Items[i].UpdatedAt = now
			c.CalculateTotals(p)
			c.UpdatedAt = now
			return
		}
	}

	item.Subtotal = round2(item.PriceAtTime * float64(item.Quantity))
	c.Items = append(c.Items, item)
	c.CalculateTotals(p)
	c.UpdatedAt = now
}

// RemoveItem drops the matching line. Unknown products are a silent no-op.
func (c *Cart) RemoveItem(productID string, p Pricing) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	c.CalculateTotals(p)
	c.UpdatedAt = time.Now().UTC()
}

// UpdateItemQuantity sets the line's quantity. Zero or negative quantities
// mean removal; unknown products are a silent no-op.
func (c *Cart) UpdateItemQuantity(productID string, quantity int, p Pricing) {
	if quantity <= 0 {
		c.RemoveItem(productID, p)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			now := time.Now().UTC()
			c.Items[i].Quantity = quantity
			c.Items[i].Subtotal = round2(c.Items[i].PriceAtTime * float64(quantity))
			c.Items[i].UpdatedAt = now
			c.CalculateTotals(p)
			c.UpdatedAt = now
			return
		}
	}
}

func (c *Cart) Clear(p Pricing) {
	c.Items = []CartItem{}
	c.CalculateTotals(p)
	c.UpdatedAt = time.Now().UTC()
}

// CalculateTotals rederives subtotal, tax, shipping and total. Tax is
// computed on the already-rounded subtotal, and shipping is free only
// strictly above the threshold.
func (c *Cart) CalculateTotals(p Pricing) {
	var sum float64
	for _, it := range c.Items {
		sum += it.Subtotal
	}
	c.Subtotal = round2(sum)
	c.Tax = round2(c.Subtotal * p.TaxRate)
	if c.Subtotal > p.FreeShippingThreshold {
		c.Shipping = 0
	} else {
		c.Shipping = p.FlatShippingFee
	}
	c.Total = round2(c.Subtotal + c.Tax + c.Shipping)
}

func (c *Cart) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// OrderData projects the cart for the order boundary.
func (c *Cart) OrderData() OrderData {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return OrderData{
		Items:    items,
		Subtotal: c.Subtotal,
		Tax:      c.Tax,
		Shipping: c.Shipping,
		Total:    c.Total,
		Currency: c.Currency,
	}
}

func (c *Cart) Serialize() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cart: %w", err)
	}
	return string(data), nil
}

func Deserialize(data string) (*Cart, error) {
	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return &c, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
