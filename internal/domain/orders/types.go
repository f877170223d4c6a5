package orders

import (
	"time"

	"pawmart/internal/domain/carts"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodPaypal     PaymentMethod = "paypal"
)

// ShippingAddress is validated field by field; every missing required field
// yields its own message.
type ShippingAddress struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Company      string `json:"company,omitempty"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"required"`
	Country      string `json:"country" validate:"required"`
	Instructions string `json:"instructions,omitempty"`
}

type CheckoutRequest struct {
	CartID          string
	Email           string
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
}

// CheckoutResult carries everything the storefront needs to confirm the
// order. The raw email never appears here, only its hash.
type CheckoutResult struct {
	OrderNumber     string          `json:"orderNumber"`
	Status          OrderStatus     `json:"status"`
	EmailHash       string          `json:"emailHash"`
	PaymentRef      string          `json:"paymentRef"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Order           carts.OrderData `json:"order"`
	CreatedAt       time.Time       `json:"createdAt"`
}
