package controllers

import (
	"net/http"
	"time"

	"github.com/rb-dev78/tillpos/api/responses"
	"github.com/rb-dev78/tillpos/api/validators"
	"github.com/rb-dev78/tillpos/internal/register"
	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
	"github.com/rb-dev78/tillpos/pkg/logger"
	"github.com/rb-dev78/tillpos/pkg/money"
)

// ReceiptResponse is the wire shape for a settled receipt.
type ReceiptResponse struct {
	TransactionID   int                `json:"transaction_id"`
	Reference       string             `json:"reference"`
	Lines           []CartLineResponse `json:"lines"`
	Subtotal        string             `json:"subtotal"`
	DiscountPercent string             `json:"discount_percent"`
	DiscountAmount  string             `json:"discount_amount"`
	TaxRate         string             `json:"tax_rate"`
	TaxAmount       string             `json:"tax_amount"`
	Total           string             `json:"total"`
	Payment         string             `json:"payment"`
	Change          string             `json:"change"`
	CreatedAt       time.Time          `json:"created_at"`
	Rendered        string             `json:"rendered"`
}

func toReceiptResponse(receipt *register.Receipt) ReceiptResponse {
	lines := make([]CartLineResponse, 0, len(receipt.Lines))
	for _, line := range receipt.Lines {
		lines = append(lines, toCartLineResponse(line))
	}
	return ReceiptResponse{
		TransactionID:   receipt.TransactionID,
		Reference:       receipt.Reference.String(),
		Lines:           lines,
		Subtotal:        receipt.Subtotal.StringFixed(2),
		DiscountPercent: receipt.DiscountPercent.String(),
		DiscountAmount:  receipt.DiscountAmount.StringFixed(2),
		TaxRate:         receipt.TaxRate.String(),
		TaxAmount:       receipt.TaxAmount.StringFixed(2),
		Total:           receipt.Total.StringFixed(2),
		Payment:         receipt.Payment.StringFixed(2),
		Change:          receipt.Change.StringFixed(2),
		CreatedAt:       receipt.CreatedAt,
		Rendered:        receipt.Render(),
	}
}

// TransactionOpen starts a fresh transaction, discarding any open cart.
func TransactionOpen(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.OpenTransaction(r.Context())
		responses.WriteSuccess(w, map[string]string{"status": "open"})
	}
}

type checkoutRequest struct {
	Payment string `json:"payment" validate:"required"`
}

// Checkout settles the open cart against the supplied payment.
func Checkout(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := money.Parse(body.Payment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment"))
			return
		}

		receipt, err := svc.Checkout(r.Context(), payment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithTransactionID(r.Context(), receipt.TransactionID)
			logg.Info(ctx, "transaction.settled")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]ReceiptResponse{"receipt": toReceiptResponse(receipt)})
	}
}

// LastReceipt returns the most recent receipt, if any transaction settled.
func LastReceipt(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receipt := svc.LastReceipt()
		if receipt == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no receipt available yet"))
			return
		}
		responses.WriteSuccess(w, map[string]ReceiptResponse{"receipt": toReceiptResponse(receipt)})
	}
}

// TransactionCount returns how many transactions have settled.
func TransactionCount(svc register.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]int{"count": svc.TransactionCount()})
	}
}
