package carts

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItem(productID string, quantity int, price float64) CartItem {
	now := time.Now().UTC()
	return CartItem{
		ID:          NewItemID(),
		CartID:      "cart_test",
		ProductID:   productID,
		Quantity:    quantity,
		PriceAtTime: price,
		Subtotal:    round2(price * float64(quantity)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// total == subtotal + tax + shipping has to hold after every mutation, with
// tax derived from the rounded subtotal.
func assertTotalsConsistent(t *testing.T, c *Cart) {
	t.Helper()
	assert.InDelta(t, round2(c.Subtotal+c.Tax+c.Shipping), c.Total, 0.001)
	assert.InDelta(t, round2(c.Subtotal*DefaultPricing.TaxRate), c.Tax, 0.001)
}

func TestNew_CartDefaults(t *testing.T) {
	cart := New("session-123")

	assert.True(t, strings.HasPrefix(cart.ID, "cart_"))
	assert.Len(t, cart.ID, len("cart_")+32)
	assert.Equal(t, "session-123", cart.SessionID)
	assert.Equal(t, "USD", cart.Currency)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.Equal(t, 7*24*time.Hour, cart.ExpiresAt.Sub(cart.CreatedAt))
	assert.False(t, cart.IsExpired())
}

func TestAddItem_TotalsUnderFreeShippingThreshold(t *testing.T) {
	cart := New("session-1")

	cart.AddItem(makeItem("prod-1", 2, 20.00), DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 40.00, cart.Subtotal, 0.001)
	assert.InDelta(t, 3.20, cart.Tax, 0.001)
	assert.InDelta(t, 10.00, cart.Shipping, 0.001)
	assert.InDelta(t, 53.20, cart.Total, 0.001)
	assertTotalsConsistent(t, cart)
}

func TestAddItem_MergesDuplicateProduct(t *testing.T) {
	cart := New("session-1")

	cart.AddItem(makeItem("prod-1", 2, 20.00), DefaultPricing)
	cart.AddItem(makeItem("prod-1", 3, 20.00), DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.InDelta(t, 100.00, cart.Subtotal, 0.001)
	assert.InDelta(t, 8.00, cart.Tax, 0.001)
	assert.Zero(t, cart.Shipping, "subtotal over $50 ships free")
	assert.InDelta(t, 108.00, cart.Total, 0.001)
	assertTotalsConsistent(t, cart)
}

// On merge the first add's price wins, whatever price the new item carries.
func TestAddItem_PriceLockedToFirstAdd(t *testing.T) {
	cart := New("session-1")

	cart.AddItem(makeItem("prod-1", 1, 10.00), DefaultPricing)
	cart.AddItem(makeItem("prod-1", 2, 99.99), DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 10.00, cart.Items[0].PriceAtTime, 0.001)
	assert.InDelta(t, 30.00, cart.Items[0].Subtotal, 0.001)
	assertTotalsConsistent(t, cart)
}

func TestRemoveItem(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 2, 20.00), DefaultPricing)
	cart.AddItem(makeItem("prod-2", 1, 15.00), DefaultPricing)

	cart.RemoveItem("prod-1", DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-2", cart.Items[0].ProductID)
	assertTotalsConsistent(t, cart)
}

func TestRemoveItem_LastItemLeavesFlatShipping(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 5, 20.00), DefaultPricing)

	cart.RemoveItem("prod-1", DefaultPricing)

	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.Tax)
	assert.InDelta(t, 10.00, cart.Shipping, 0.001)
	assert.InDelta(t, 10.00, cart.Total, 0.001)
	assertTotalsConsistent(t, cart)
}

func TestRemoveItem_UnknownProductIsNoop(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 2, 20.00), DefaultPricing)
	before := cart.Total

	cart.RemoveItem("prod-unknown", DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.InDelta(t, before, cart.Total, 0.001)
}

func TestUpdateItemQuantity(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 2, 10.00), DefaultPricing)

	cart.UpdateItemQuantity("prod-1", 5, DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.InDelta(t, 50.00, cart.Items[0].Subtotal, 0.001)
	assertTotalsConsistent(t, cart)
}

func TestUpdateItemQuantity_ZeroAndNegativeRemove(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		cart := New("session-1")
		cart.AddItem(makeItem("prod-1", 2, 10.00), DefaultPricing)

		cart.UpdateItemQuantity("prod-1", quantity, DefaultPricing)

		assert.Empty(t, cart.Items, "quantity %d should remove the item", quantity)
		assertTotalsConsistent(t, cart)
	}
}

func TestUpdateItemQuantity_UnknownProductIsNoop(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 2, 10.00), DefaultPricing)

	cart.UpdateItemQuantity("prod-unknown", 9, DefaultPricing)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestClear(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 2, 20.00), DefaultPricing)
	cart.AddItem(makeItem("prod-2", 1, 15.00), DefaultPricing)

	cart.Clear(DefaultPricing)

	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assertTotalsConsistent(t, cart)
}

// Free shipping starts strictly above the threshold: exactly $50.00 still
// pays the flat fee.
func TestShippingThresholdIsStrict(t *testing.T) {
	atThreshold := New("session-1")
	atThreshold.AddItem(makeItem("prod-1", 2, 25.00), DefaultPricing)
	assert.InDelta(t, 50.00, atThreshold.Subtotal, 0.001)
	assert.InDelta(t, 10.00, atThreshold.Shipping, 0.001)

	overThreshold := New("session-2")
	overThreshold.AddItem(makeItem("prod-1", 1, 50.01), DefaultPricing)
	assert.InDelta(t, 50.01, overThreshold.Subtotal, 0.001)
	assert.Zero(t, overThreshold.Shipping)
}

func TestTotalsConsistentAfterEveryOperation(t *testing.T) {
	cart := New("session-1")

	ops := []func(){
		func() { cart.AddItem(makeItem("prod-1", 3, 19.99), DefaultPricing) },
		func() { cart.AddItem(makeItem("prod-2", 2, 14.49), DefaultPricing) },
		func() { cart.AddItem(makeItem("prod-1", 1, 19.99), DefaultPricing) },
		func() { cart.UpdateItemQuantity("prod-2", 7, DefaultPricing) },
		func() { cart.RemoveItem("prod-1", DefaultPricing) },
		func() { cart.UpdateItemQuantity("prod-2", 0, DefaultPricing) },
	}
	for i, op := range ops {
		op()
		assertTotalsConsistent(t, cart)
		assert.False(t, cart.UpdatedAt.IsZero(), "op %d left updatedAt unset", i)
	}
}

func TestCart_SerializeRoundTrip(t *testing.T) {
	cart := New("session-round-trip")
	cart.AddItem(makeItem("prod-1", 2, 20.00), DefaultPricing)
	cart.AddItem(makeItem("prod-2", 1, 5.25), DefaultPricing)

	data, err := cart.Serialize()
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, cart.SessionID, got.SessionID)
	assert.Equal(t, cart.Currency, got.Currency)
	assert.InDelta(t, cart.Subtotal, got.Subtotal, 0.001)
	assert.InDelta(t, cart.Tax, got.Tax, 0.001)
	assert.InDelta(t, cart.Shipping, got.Shipping, 0.001)
	assert.InDelta(t, cart.Total, got.Total, 0.001)
	assert.True(t, got.ExpiresAt.Equal(cart.ExpiresAt))
	assert.True(t, got.CreatedAt.Equal(cart.CreatedAt))

	require.Len(t, got.Items, 2)
	for i := range cart.Items {
		assert.Equal(t, cart.Items[i].ID, got.Items[i].ID)
		assert.Equal(t, cart.Items[i].ProductID, got.Items[i].ProductID)
		assert.Equal(t, cart.Items[i].Quantity, got.Items[i].Quantity)
		assert.InDelta(t, cart.Items[i].PriceAtTime, got.Items[i].PriceAtTime, 0.001)
		assert.InDelta(t, cart.Items[i].Subtotal, got.Items[i].Subtotal, 0.001)
		assert.True(t, got.Items[i].CreatedAt.Equal(cart.Items[i].CreatedAt))
	}
}

func TestCart_SerializeRoundTrip_EmptyItems(t *testing.T) {
	cart := New("session-empty")

	data, err := cart.Serialize()
	require.NoError(t, err)
	assert.Contains(t, data, `"items":[]`, "empty items must serialize as [], not null")

	got, err := Deserialize(data)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestOrderData_Projection(t *testing.T) {
	cart := New("session-1")
	cart.AddItem(makeItem("prod-1", 3, 25.00), DefaultPricing)

	data := cart.OrderData()

	assert.Len(t, data.Items, 1)
	assert.InDelta(t, cart.Subtotal, data.Subtotal, 0.001)
	assert.InDelta(t, cart.Tax, data.Tax, 0.001)
	assert.InDelta(t, cart.Shipping, data.Shipping, 0.001)
	assert.InDelta(t, cart.Total, data.Total, 0.001)
	assert.Equal(t, "USD", data.Currency)
}
