package controllers

import (
	"net/http"
	"strconv"

	"github.com/rb-dev78/tillpos/api/responses"
	"github.com/rb-dev78/tillpos/api/validators"
	"github.com/rb-dev78/tillpos/internal/cart"
	"github.com/rb-dev78/tillpos/internal/register"
	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
	"github.com/rb-dev78/tillpos/pkg/logger"
	"github.com/rb-dev78/tillpos/pkg/money"
)

// CartLineResponse is the wire shape for one cart line.
type CartLineResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal string          `json:"subtotal"`
}

// CartTotalsResponse is the wire shape for the derived figures.
type CartTotalsResponse struct {
	Subtotal        string `json:"subtotal"`
	DiscountPercent string `json:"discount_percent"`
	DiscountAmount  string `json:"discount_amount"`
	TotalBeforeTax  string `json:"total_before_tax"`
	TaxRate         string `json:"tax_rate"`
	TaxAmount       string `json:"tax_amount"`
	Total           string `json:"total"`
}

func toCartLineResponse(line cart.Line) CartLineResponse {
	return CartLineResponse{
		Product:  toProductResponse(line.Product),
		Quantity: line.Quantity,
		Subtotal: line.Subtotal().StringFixed(2),
	}
}

func toCartTotalsResponse(totals cart.Totals) CartTotalsResponse {
	return CartTotalsResponse{
		Subtotal:        totals.Subtotal.StringFixed(2),
		DiscountPercent: totals.DiscountPercent.String(),
		DiscountAmount:  totals.DiscountAmount.StringFixed(2),
		TotalBeforeTax:  totals.TotalBeforeTax.StringFixed(2),
		TaxRate:         totals.TaxRate.String(),
		TaxAmount:       totals.TaxAmount.StringFixed(2),
		Total:           totals.Total.StringFixed(2),
	}
}

func writeCart(w http.ResponseWriter, svc register.Service) {
	c := svc.Cart()
	lines := c.Lines()
	out := make([]CartLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, toCartLineResponse(line))
	}
	responses.WriteSuccess(w, map[string]any{
		"lines":  out,
		"totals": toCartTotalsResponse(c.Totals()),
	})
}

// CartFetch returns the open cart's lines and derived totals.
func CartFetch(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeCart(w, svc)
	}
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"required,min=1"`
}

// CartAddItem adds quantity units of a product to the cart.
func CartAddItem(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AddToCart(r.Context(), body.ProductID, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, svc)
	}
}

// CartRemoveItem removes a product line, or part of it when ?quantity= is
// given.
func CartRemoveItem(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var quantity *int
		if raw := r.URL.Query().Get("quantity"); raw != "" {
			qty, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid quantity %q", raw))
				return
			}
			quantity = &qty
		}

		if err := svc.RemoveFromCart(r.Context(), id, quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, svc)
	}
}

type discountRequest struct {
	Percent string `json:"percent" validate:"required"`
}

// CartDiscount replaces the cart-level discount percentage.
func CartDiscount(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body discountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		percent, err := money.Parse(body.Percent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid percent"))
			return
		}

		if err := svc.ApplyDiscount(r.Context(), percent); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, svc)
	}
}
