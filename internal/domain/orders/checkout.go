package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawmart/internal/domain/carts"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// Service is the guest-checkout boundary: it validates the shipping address,
// hashes the email, charges the gateway and hands back an order reference.
// Nothing past the hash ever sees the raw email.
type Service struct {
	carts   *carts.Service
	gateway Gateway
	numbers *NumberGenerator
}

func NewService(cartService *carts.Service, gateway Gateway, numbers *NumberGenerator) *Service {
	return &Service{carts: cartService, gateway: gateway, numbers: numbers}
}

// Checkout runs the guest order flow against the cart's current snapshot.
// Validation failures come back as the message slice with no error; they are
// not store failures.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, []string, error) {
	msgs := ValidateShippingAddress(req.ShippingAddress)
	if req.Email == "" {
		msgs = append(msgs, "Email is required")
	}
	if len(msgs) > 0 {
		return nil, msgs, nil
	}

	cart, err := s.carts.GetCart(ctx, req.CartID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	orderNumber := s.numbers.Generate(cart.SessionID)

	charge, err := s.gateway.Charge(ctx, ChargeRequest{
		Amount:    cart.Total,
		Currency:  cart.Currency,
		Method:    req.PaymentMethod,
		Reference: orderNumber,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("payment capture: %w", err)
	}
	if !charge.Success {
		msg := charge.Message
		if msg == "" {
			msg = "Payment was declined"
		}
		return nil, []string{msg}, nil
	}

	// The cart is consumed by the order; a checked-out cart must not linger.
	if err := s.carts.DeleteCart(ctx, cart.ID); err != nil {
		return nil, nil, err
	}

	return &CheckoutResult{
		OrderNumber:     orderNumber,
		Status:          StatusPaid,
		EmailHash:       HashEmail(req.Email),
		PaymentRef:      charge.ReferenceID,
		ShippingAddress: req.ShippingAddress,
		Order:           cart.OrderData(),
		CreatedAt:       time.Now().UTC(),
	}, nil, nil
}
