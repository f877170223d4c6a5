package main

import (
	"errors"
	"net/http"

	"pawmart/internal/domain/orders"
)

type checkoutPayload struct {
	Email           string                 `json:"email"`
	ShippingAddress orders.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   orders.PaymentMethod   `json:"paymentMethod"`
}

// checkoutHandler runs the guest checkout against the session's cart. The
// raw email goes into the hash and nowhere else: not the response, not the
// logs.
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var payload checkoutPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sess := getSessionFromContext(r)
	cart, err := app.resolveCart(r, sess)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if cart == nil {
		app.notFoundResponse(w, r, "cart")
		return
	}

	result, msgs, err := app.checkout.Checkout(r.Context(), orders.CheckoutRequest{
		CartID:          cart.ID,
		Email:           payload.Email,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrCartNotFound):
			app.notFoundResponse(w, r, "cart")
		case errors.Is(err, orders.ErrEmptyCart):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	if len(msgs) > 0 {
		app.validationFailedResponse(w, r, msgs)
		return
	}

	// The cart was consumed; drop the session's back-reference.
	sess.CartID = ""
	if err := app.sessions.UpdateSession(r.Context(), sess); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, result, "Order placed"); err != nil {
		app.internalServerError(w, r, err)
	}
}
