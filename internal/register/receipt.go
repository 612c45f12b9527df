package register

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rb-dev78/tillpos/internal/cart"
)

const receiptWidth = 42

// Receipt is the immutable snapshot of a settled transaction. Lines are the
// cart's lines as they stood at checkout; the figures are the cart's derived
// values at that moment and never change afterwards.
type Receipt struct {
	TransactionID   int             `json:"transaction_id"`
	Reference       uuid.UUID       `json:"reference"`
	Lines           []cart.Line     `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	Payment         decimal.Decimal `json:"payment"`
	Change          decimal.Decimal `json:"change"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Render lays the receipt out as fixed-width display text: item lines,
// subtotal, a discount line only when a discount was applied, tax, total,
// payment, and change.
func (r *Receipt) Render() string {
	rule := strings.Repeat("-", receiptWidth)
	border := strings.Repeat("=", receiptWidth)

	lines := []string{
		border,
		center("TILLPOS POINT OF SALE"),
		border,
		fmt.Sprintf("  Transaction: #%06d", r.TransactionID),
		fmt.Sprintf("  Date: %s", r.CreatedAt.Format("2006-01-02  15:04:05")),
		rule,
		fmt.Sprintf("  %-22s %4s %7s %7s", "ITEM", "QTY", "PRICE", "SUB"),
		rule,
	}

	for _, line := range r.Lines {
		lines = append(lines, fmt.Sprintf(
			"  %-22s %4d $%6s $%6s",
			line.Product.Name, line.Quantity,
			line.Product.Price.StringFixed(2), line.Subtotal().StringFixed(2),
		))
	}

	lines = append(lines,
		rule,
		fmt.Sprintf("  %-30s $%7s", "Subtotal", r.Subtotal.StringFixed(2)),
	)
	if !r.DiscountPercent.IsZero() {
		lines = append(lines, fmt.Sprintf(
			"  %-30s -$%6s",
			fmt.Sprintf("Discount (%s%%)", r.DiscountPercent), r.DiscountAmount.StringFixed(2),
		))
	}
	lines = append(lines,
		fmt.Sprintf("  %-30s $%7s", fmt.Sprintf("Tax (%s%%)", r.TaxRate), r.TaxAmount.StringFixed(2)),
		fmt.Sprintf("  %-30s $%7s", "TOTAL", r.Total.StringFixed(2)),
		rule,
		fmt.Sprintf("  %-30s $%7s", "Payment", r.Payment.StringFixed(2)),
		fmt.Sprintf("  %-30s $%7s", "Change", r.Change.StringFixed(2)),
		border,
		center("Thank you for shopping!"),
		border,
	)

	return strings.Join(lines, "\n")
}

func center(text string) string {
	if len(text) >= receiptWidth {
		return text
	}
	pad := (receiptWidth - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}
