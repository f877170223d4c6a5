package main

import (
	"errors"
	"fmt"
	"net/http"

	"pawmart/internal/domain/carts"
	"pawmart/internal/domain/products"
	"pawmart/internal/domain/sessions"

	"github.com/go-chi/chi/v5"
)

// resolveCart finds the session's cart: the session back-reference first,
// then the store scan as a fallback for a lost back-link. Returns nil when
// the session has no live cart.
func (app *application) resolveCart(r *http.Request, sess *sessions.Session) (*carts.Cart, error) {
	ctx := r.Context()

	if sess.CartID != "" {
		cart, err := app.carts.GetCart(ctx, sess.CartID)
		if err != nil || cart != nil {
			return cart, err
		}
	}
	return app.carts.GetCartBySessionID(ctx, sess.ID)
}

// resolveOrCreateCart additionally creates a cart and back-links it on the
// session when none exists yet.
func (app *application) resolveOrCreateCart(r *http.Request, sess *sessions.Session) (*carts.Cart, error) {
	cart, err := app.resolveCart(r, sess)
	if err != nil || cart != nil {
		return cart, err
	}

	ctx := r.Context()
	cart, err = app.carts.CreateCart(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	sess.CartID = cart.ID
	if err := app.sessions.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return cart, nil
}

// attachProductDetails re-populates display snapshots from the catalog.
// Lookup failures only cost the snapshot, never the cart.
func (app *application) attachProductDetails(r *http.Request, cart *carts.Cart) {
	for i := range cart.Items {
		product, err := app.catalog.GetProductByID(r.Context(), cart.Items[i].ProductID)
		if err != nil {
			if !errors.Is(err, products.ErrProductNotFound) {
				app.logger.Warnw("catalog lookup failed", "productId", cart.Items[i].ProductID, "error", err)
			}
			continue
		}
		cart.Items[i].Product = product
	}
}

func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	sess := getSessionFromContext(r)

	cart, err := app.resolveOrCreateCart(r, sess)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.attachProductDetails(r, cart)

	if err := app.jsonResponse(w, http.StatusOK, cart, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

type addCartItemPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var payload addCartItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.catalog.GetProductByID(r.Context(), payload.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			app.notFoundResponse(w, r, "product")
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	sess := getSessionFromContext(r)
	cart, err := app.resolveOrCreateCart(r, sess)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	cart, err = app.carts.AddItemToCart(r.Context(), cart.ID, product, payload.Quantity)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if cart == nil {
		app.notFoundResponse(w, r, "cart")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart, "Item added to cart"); err != nil {
		app.internalServerError(w, r, err)
	}
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity"`
}

func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var payload updateCartItemPayload
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

	// Zero and negative quantities remove the item.
	cart, err = app.carts.UpdateItemQuantity(r.Context(), cart.ID, productID, payload.Quantity)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if cart == nil {
		app.notFoundResponse(w, r, "cart")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

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

	cart, err = app.carts.RemoveItemFromCart(r.Context(), cart.ID, productID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if cart == nil {
		app.notFoundResponse(w, r, "cart")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
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

	cart, err = app.carts.ClearCart(r.Context(), cart.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if cart == nil {
		app.notFoundResponse(w, r, "cart")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cart, "Cart cleared"); err != nil {
		app.internalServerError(w, r, err)
	}
}

type mergeCartPayload struct {
	GuestCartID string `json:"guestCartId" validate:"required"`
}

// mergeCartHandler folds a previous guest cart into the current session's
// cart, e.g. after the shopper switches devices.
func (app *application) mergeCartHandler(w http.ResponseWriter, r *http.Request) {
	var payload mergeCartPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	sess := getSessionFromContext(r)
	cart, err := app.resolveOrCreateCart(r, sess)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if payload.GuestCartID == cart.ID {
		app.badRequestResponse(w, r, fmt.Errorf("cannot merge a cart into itself"))
		return
	}

	merged, err := app.carts.MergeGuestCart(r.Context(), payload.GuestCartID, cart.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if merged == nil {
		app.notFoundResponse(w, r, "cart")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, merged, "Carts merged"); err != nil {
		app.internalServerError(w, r, err)
	}
}
