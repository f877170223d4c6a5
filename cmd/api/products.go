package main

import (
	"errors"
	"net/http"
	"strconv"

	"pawmart/internal/domain/products"

	"github.com/go-chi/chi/v5"
)

func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 20
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	categorySlug := q.Get("category")

	items, total, err := app.catalog.ListProducts(r.Context(), categorySlug, limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if items == nil {
		items = []*products.Product{}
	}

	data := map[string]any{
		"products": items,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	}
	if err := app.jsonResponse(w, http.StatusOK, data, "Products retrieved successfully"); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := app.catalog.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			app.notFoundResponse(w, r, "product")
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product, ""); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.catalog.ListCategories(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if categories == nil {
		categories = []*products.Category{}
	}

	if err := app.jsonResponse(w, http.StatusOK, categories, "Categories retrieved successfully"); err != nil {
		app.internalServerError(w, r, err)
	}
}
