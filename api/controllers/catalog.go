package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rb-dev78/tillpos/api/responses"
	"github.com/rb-dev78/tillpos/api/validators"
	"github.com/rb-dev78/tillpos/internal/catalog"
	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
	"github.com/rb-dev78/tillpos/pkg/logger"
	"github.com/rb-dev78/tillpos/pkg/money"
	"github.com/rb-dev78/tillpos/pkg/pagination"
)

// ProductResponse is the wire shape for a catalog product.
type ProductResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
}

func toProductResponse(p catalog.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.StringFixed(2),
		Category: p.Category,
		Stock:    p.Stock,
	}
}

// CatalogList lists products, optionally filtered by ?category= and
// ?in_stock=true, paged by ?limit= and ?offset=.
func CatalogList(cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination.ParseQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListInput{
			Category:    r.URL.Query().Get("category"),
			InStockOnly: r.URL.Query().Get("in_stock") == "true",
		}
		products := cat.List(r.Context(), input)
		start, end := pagination.Window(len(products), page)

		out := make([]ProductResponse, 0, end-start)
		for _, p := range products[start:end] {
			out = append(out, toProductResponse(p))
		}
		responses.WriteSuccess(w, map[string]any{
			"products": out,
			"total":    len(products),
		})
	}
}

// CatalogGet fetches a single product by id.
func CatalogGet(cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := cat.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]ProductResponse{"product": toProductResponse(product)})
	}
}

// CatalogCategories lists the distinct category names.
func CatalogCategories(cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string][]string{"categories": cat.Categories(r.Context())})
	}
}

type registerProductRequest struct {
	Name     string `json:"name" validate:"required"`
	Price    string `json:"price" validate:"required"`
	Category string `json:"category" validate:"required"`
	Stock    int    `json:"stock" validate:"min=0"`
}

// CatalogRegister registers a new product.
func CatalogRegister(cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := money.Parse(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		product, err := cat.Register(r.Context(), catalog.RegisterInput{
			Name:     body.Name,
			Price:    price,
			Category: body.Category,
			Stock:    body.Stock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]ProductResponse{"product": toProductResponse(product)})
	}
}

type restockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CatalogRestock adds stock to an existing product.
func CatalogRestock(cat catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body restockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := cat.Restock(r.Context(), id, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]ProductResponse{"product": toProductResponse(product)})
	}
}

func productIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid product id %q", raw)
	}
	return id, nil
}
