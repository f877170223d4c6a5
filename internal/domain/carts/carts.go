package carts

import (
	"context"
	"errors"
	"time"

	"pawmart/internal/domain/products"
	"pawmart/internal/kv"
)

const keyPrefix = "cart:"

// Service orchestrates cart persistence over an injected key-value store.
// Missing or expired carts come back as nil with a nil error; only store
// failures surface as errors. Read-modify-write sequences are not locked:
// two overlapping mutations to the same cart are last-write-wins.
type Service struct {
	store   kv.Store
	pricing Pricing
}

func NewService(store kv.Store) *Service {
	return &Service{store: store, pricing: DefaultPricing}
}

// NewServiceWithPricing overrides the pricing knobs (tests, other markets).
func NewServiceWithPricing(store kv.Store, p Pricing) *Service {
	return &Service{store: store, pricing: p}
}

func cartKey(id string) string { return keyPrefix + id }

func (s *Service) CreateCart(ctx context.Context, sessionID string) (*Cart, error) {
	cart := New(sessionID)
	if err := s.persist(ctx, cart, DefaultTTL); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart evicts lazily, same as sessions: an expired record is deleted on
// read even when the store TTL has not fired.
func (s *Service) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	data, err := s.store.Get(ctx, cartKey(cartID))
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cart, err := Deserialize(data)
	if err != nil {
		return nil, err
	}

	if cart.IsExpired() {
		if err := s.DeleteCart(ctx, cartID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return cart, nil
}

// GetCartBySessionID scans every cart key and returns the first live cart
// owned by the session. O(n) over all active carts; fine at this scale.
// Swap in a session->cart index key before this becomes hot.
func (s *Service) GetCartBySessionID(ctx context.Context, sessionID string) (*Cart, error) {
	keys, err := s.store.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if errors.Is(err, kv.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		cart, err := Deserialize(data)
		if err != nil {
			return nil, err
		}
		if cart.SessionID == sessionID && !cart.IsExpired() {
			return cart, nil
		}
	}
	return nil, nil
}

// UpdateCart re-persists with the TTL recomputed from the cart's own
// expiresAt (floored at one second), so the store TTL never drifts from the
// entity field.
func (s *Service) UpdateCart(ctx context.Context, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	return s.persist(ctx, cart, remainingTTL(cart.ExpiresAt))
}

func (s *Service) DeleteCart(ctx context.Context, cartID string) error {
	return s.store.Delete(ctx, cartKey(cartID))
}

// AddItemToCart snapshots the product's current price into a new line item
// and merges it into the cart. Returns nil when the cart is missing or
// expired.
func (s *Service) AddItemToCart(ctx context.Context, cartID string, product *products.Product, quantity int) (*Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil || cart == nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := CartItem{
		ID:          NewItemID(),
		CartID:      cart.ID,
		ProductID:   product.ID,
		Product:     product,
		Quantity:    quantity,
		PriceAtTime: product.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	cart.AddItem(item, s.pricing)
	if err := s.UpdateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) RemoveItemFromCart(ctx context.Context, cartID, productID string) (*Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil || cart == nil {
		return nil, err
	}

	cart.RemoveItem(productID, s.pricing)
	if err := s.UpdateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) (*Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil || cart == nil {
		return nil, err
	}

	cart.UpdateItemQuantity(productID, quantity, s.pricing)
	if err := s.UpdateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) ClearCart(ctx context.Context, cartID string) (*Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil || cart == nil {
		return nil, err
	}

	cart.Clear(s.pricing)
	if err := s.UpdateCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// MergeGuestCart folds the guest cart into the user cart, item by item in
// the guest cart's insertion order (shared products merge quantities, the
// user cart's priceAtTime wins), then deletes the guest cart. Returns nil if
// either cart is missing.
func (s *Service) MergeGuestCart(ctx context.Context, guestCartID, userCartID string) (*Cart, error) {
	guestCart, err := s.GetCart(ctx, guestCartID)
	if err != nil {
		return nil, err
	}
	userCart, err := s.GetCart(ctx, userCartID)
	if err != nil {
		return nil, err
	}
	if guestCart == nil || userCart == nil {
		return nil, nil
	}

	for _, item := range guestCart.Items {
		item.CartID = userCart.ID
		userCart.AddItem(item, s.pricing)
	}

	if err := s.DeleteCart(ctx, guestCartID); err != nil {
		return nil, err
	}
	if err := s.UpdateCart(ctx, userCart); err != nil {
		return nil, err
	}
	return userCart, nil
}

// CleanupExpiredCarts sweeps all cart keys and deletes the expired ones,
// returning the count. Complements lazy eviction.
func (s *Service) CleanupExpiredCarts(ctx context.Context) (int, error) {
	keys, err := s.store.Keys(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if errors.Is(err, kv.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return cleaned, err
		}

		cart, err := Deserialize(data)
		if err != nil {
			return cleaned, err
		}
		if cart.IsExpired() {
			if err := s.store.Delete(ctx, key); err != nil {
				return cleaned, err
			}
			cleaned++
		}
	}
	return cleaned, nil
}

// persist strips product snapshots before writing: display details are
// re-attached at read time by the catalog, only priceAtTime is stored.
func (s *Service) persist(ctx context.Context, cart *Cart, ttl time.Duration) error {
	stored := *cart
	if len(cart.Items) > 0 {
		stored.Items = make([]CartItem, len(cart.Items))
		copy(stored.Items, cart.Items)
		for i := range stored.Items {
			stored.Items[i].Product = nil
		}
	}

	data, err := stored.Serialize()
	if err != nil {
		return err
	}
	return s.store.SetWithTTL(ctx, cartKey(cart.ID), data, ttl)
}

func remainingTTL(expiresAt time.Time) time.Duration {
	secs := int64(time.Until(expiresAt) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
