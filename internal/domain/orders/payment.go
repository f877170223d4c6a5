package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Gateway is the opaque payment boundary: one charge call, success or
// failure plus a provider reference.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

type ChargeRequest struct {
	Amount    float64
	Currency  string
	Method    PaymentMethod
	Reference string
}

type ChargeResult struct {
	Success     bool
	ReferenceID string
	Message     string
}

// MockGateway approves every charge and mints a provider-style reference.
// Set Decline to exercise the failure path.
type MockGateway struct {
	Decline bool
}

func (g *MockGateway) Charge(_ context.Context, req ChargeRequest) (ChargeResult, error) {
	if req.Amount <= 0 {
		return ChargeResult{}, fmt.Errorf("invalid charge amount %.2f", req.Amount)
	}
	if g.Decline {
		return ChargeResult{Success: false, Message: "card declined"}, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ChargeResult{}, fmt.Errorf("generate payment reference: %w", err)
	}
	return ChargeResult{
		Success:     true,
		ReferenceID: "pi_" + hex.EncodeToString(b),
	}, nil
}
