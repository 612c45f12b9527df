package cart

import (
	"github.com/shopspring/decimal"

	"github.com/rb-dev78/tillpos/internal/catalog"
	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
	"github.com/rb-dev78/tillpos/pkg/money"
)

// Line is one product's quantity within the cart. Product is the snapshot
// captured at add time: later stock movements in the catalog do not reach
// through it, which keeps receipts stable against aliasing.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is price × quantity, rounded to 2 fractional digits.
func (l Line) Subtotal() decimal.Decimal {
	return money.Round2(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Totals is a point-in-time snapshot of the cart's derived figures.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalBeforeTax  decimal.Decimal `json:"total_before_tax"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
}

// Cart holds the open transaction's lines in insertion order, one line per
// product id, plus a replaceable discount percentage. All derived figures are
// recomputed from current state on every read; nothing is cached.
type Cart struct {
	lines           []Line
	discountPercent decimal.Decimal
	taxRate         decimal.Decimal
}

// New builds an empty cart applying the given flat tax percentage.
func New(taxRate decimal.Decimal) *Cart {
	return &Cart{taxRate: taxRate}
}

func (c *Cart) findLine(productID int) *Line {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return &c.lines[i]
		}
	}
	return nil
}

// Add puts quantity units of product into the cart. When a line for the
// product already exists the quantities are summed and the cumulative total
// is checked against the product's current stock, so two adds that fit
// individually still fail when their sum does not.
func (c *Cart) Add(product catalog.Product, quantity int) error {
	if quantity < 1 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be at least 1, got %d", quantity)
	}
	if !product.Available(quantity) {
		return insufficientStock(product, quantity)
	}

	existing := c.findLine(product.ID)
	if existing != nil {
		total := existing.Quantity + quantity
		if !product.Available(total) {
			return insufficientStock(product, total)
		}
		existing.Quantity = total
		return nil
	}

	c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	return nil
}

// Remove takes quantity units of the product out of the cart. A nil quantity,
// or one at or above the line's quantity, deletes the whole line; a line never
// survives with quantity zero.
func (c *Cart) Remove(productID int, quantity *int) error {
	line := c.findLine(productID)
	if line == nil {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product id %d not found in cart", productID)
	}
	if quantity != nil && *quantity <= 0 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "removal quantity must be positive, got %d", *quantity)
	}
	if quantity == nil || *quantity >= line.Quantity {
		c.deleteLine(productID)
		return nil
	}
	line.Quantity -= *quantity
	return nil
}

func (c *Cart) deleteLine(productID int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// ApplyDiscount replaces the cart discount with percent; not cumulative.
func (c *Cart) ApplyDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(money.Hundred) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "discount must be between 0 and 100, got %s", percent)
	}
	c.discountPercent = percent
	return nil
}

// Clear empties all lines and resets the discount to zero.
func (c *Cart) Clear() {
	c.lines = nil
	c.discountPercent = decimal.Zero
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) DiscountPercent() decimal.Decimal {
	return c.discountPercent
}

func (c *Cart) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Subtotal is the sum of line subtotals, rounded at each step.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.lines {
		sum = sum.Add(line.Subtotal())
	}
	return money.Round2(sum)
}

func (c *Cart) DiscountAmount() decimal.Decimal {
	return money.PercentOf(c.Subtotal(), c.discountPercent)
}

func (c *Cart) TotalBeforeTax() decimal.Decimal {
	return money.Round2(c.Subtotal().Sub(c.DiscountAmount()))
}

func (c *Cart) TaxAmount() decimal.Decimal {
	return money.PercentOf(c.TotalBeforeTax(), c.taxRate)
}

func (c *Cart) Total() decimal.Decimal {
	return money.Round2(c.TotalBeforeTax().Add(c.TaxAmount()))
}

// Totals bundles every derived figure as of now.
func (c *Cart) Totals() Totals {
	return Totals{
		Subtotal:        c.Subtotal(),
		DiscountPercent: c.discountPercent,
		DiscountAmount:  c.DiscountAmount(),
		TotalBeforeTax:  c.TotalBeforeTax(),
		TaxRate:         c.taxRate,
		TaxAmount:       c.TaxAmount(),
		Total:           c.Total(),
	}
}

func insufficientStock(product catalog.Product, requested int) *pkgerrors.Error {
	return pkgerrors.Newf(
		pkgerrors.CodeInsufficientStock,
		"insufficient stock for %q (requested %d, available %d)", product.Name, requested, product.Stock,
	).WithDetails(catalog.StockDetails{
		Product:   product.Name,
		Requested: requested,
		Available: product.Stock,
	})
}
