package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rb-dev78/tillpos/internal/catalog"
	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
)

var defaultTaxRate = decimal.RequireFromString("8.5")

func product(id int, name, price string, stock int) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Test",
		Stock:    stock,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestAddAppendsAndMergesLines(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	coffee := product(1, "Coffee", "2.50", 50)
	tea := product(2, "Tea", "1.75", 60)

	if err := c.Add(coffee, 2); err != nil {
		t.Fatalf("add coffee: %v", err)
	}
	if err := c.Add(tea, 1); err != nil {
		t.Fatalf("add tea: %v", err)
	}
	if err := c.Add(coffee, 3); err != nil {
		t.Fatalf("merge coffee: %v", err)
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Product.ID != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected merged coffee line qty 5 first, got %+v", lines[0])
	}
	if lines[1].Product.ID != 2 {
		t.Fatalf("insertion order not preserved: %+v", lines[1])
	}
	if c.ItemCount() != 6 {
		t.Fatalf("expected 6 items, got %d", c.ItemCount())
	}
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	for _, qty := range []int{0, -3} {
		if err := c.Add(product(1, "Coffee", "2.50", 50), qty); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("qty %d: expected validation error, got %v", qty, err)
		}
	}
	if !c.IsEmpty() {
		t.Fatal("cart must stay empty after rejected adds")
	}
}

func TestAddChecksCumulativeStock(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	salad := product(1, "Salad", "7.00", 5)

	if err := c.Add(salad, 3); err != nil {
		t.Fatalf("first add: %v", err)
	}

	// 3 then 3 each fit individually but the sum does not.
	err := c.Add(salad, 3)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient-stock error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(catalog.StockDetails)
	if !ok {
		t.Fatalf("expected stock details, got %T", pkgerrors.As(err).Details())
	}
	if details.Product != "Salad" || details.Requested != 6 || details.Available != 5 {
		t.Fatalf("unexpected details %+v", details)
	}

	// The failed merge must not change the existing line.
	if lines := c.Lines(); len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("cart mutated by failed add: %+v", lines)
	}
}

func TestAddRejectsOversizedFirstAdd(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	err := c.Add(product(1, "Earbuds", "29.99", 2), 3)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient-stock error, got %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("cart must stay empty after rejected add")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	coffee := product(1, "Coffee", "2.50", 50)
	if err := c.Add(coffee, 5); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := c.Remove(2, nil); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not-found for absent line, got %v", err)
	}
	if err := c.Remove(1, intPtr(0)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero qty, got %v", err)
	}

	if err := c.Remove(1, intPtr(2)); err != nil {
		t.Fatalf("partial remove: %v", err)
	}
	if lines := c.Lines(); len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("expected qty 3 after partial remove, got %+v", lines)
	}

	// Removing at least the line quantity deletes the line entirely.
	if err := c.Remove(1, intPtr(10)); err != nil {
		t.Fatalf("over-remove: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatal("expected empty cart")
	}
}

func TestRemoveWithoutQuantityDeletesLine(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	if err := c.Add(product(1, "Tea", "1.75", 60), 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(product(2, "Muffin", "2.00", 35), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	before := len(c.Lines())
	if err := c.Remove(1, nil); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := len(c.Lines()); got != before-1 {
		t.Fatalf("expected %d lines, got %d", before-1, got)
	}
}

func TestApplyDiscountBounds(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	for _, percent := range []string{"-1", "100.5"} {
		if err := c.ApplyDiscount(decimal.RequireFromString(percent)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("percent %s: expected validation error, got %v", percent, err)
		}
	}
	for _, percent := range []string{"0", "100", "12.5"} {
		if err := c.ApplyDiscount(decimal.RequireFromString(percent)); err != nil {
			t.Fatalf("percent %s: unexpected error %v", percent, err)
		}
	}

	// Discounts replace, they do not stack.
	if err := c.ApplyDiscount(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := c.DiscountPercent(); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected discount 10, got %s", got)
	}
}

func TestTotalsPipeline(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	if err := c.Add(product(1, "Coffee", "2.50", 50), 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	totals := c.Totals()
	assertAmount(t, "subtotal", totals.Subtotal, "5.00")
	assertAmount(t, "tax", totals.TaxAmount, "0.43")
	assertAmount(t, "total", totals.Total, "5.43")
}

func TestTotalsWithDiscount(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	if err := c.Add(product(1, "Gadget", "100.00", 10), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.ApplyDiscount(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("discount: %v", err)
	}

	totals := c.Totals()
	assertAmount(t, "subtotal", totals.Subtotal, "100.00")
	assertAmount(t, "discount", totals.DiscountAmount, "10.00")
	assertAmount(t, "before tax", totals.TotalBeforeTax, "90.00")
	assertAmount(t, "tax", totals.TaxAmount, "7.65")
	assertAmount(t, "total", totals.Total, "97.65")
}

func TestTotalsOrderingInvariants(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	if err := c.Add(product(1, "Notebook", "3.99", 30), 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.ApplyDiscount(decimal.RequireFromString("12.5")); err != nil {
		t.Fatalf("discount: %v", err)
	}

	if c.Total().LessThan(c.TotalBeforeTax()) {
		t.Fatalf("total %s < total before tax %s with positive tax rate", c.Total(), c.TotalBeforeTax())
	}
	if c.TotalBeforeTax().GreaterThan(c.Subtotal()) {
		t.Fatalf("total before tax %s > subtotal %s with non-negative discount", c.TotalBeforeTax(), c.Subtotal())
	}
}

func TestClearResetsDiscount(t *testing.T) {
	t.Parallel()

	c := New(defaultTaxRate)
	if err := c.Add(product(1, "Pen Set", "5.49", 45), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.ApplyDiscount(decimal.NewFromInt(50)); err != nil {
		t.Fatalf("discount: %v", err)
	}

	c.Clear()
	if !c.IsEmpty() {
		t.Fatal("expected empty cart after clear")
	}
	if !c.DiscountPercent().IsZero() {
		t.Fatalf("expected discount reset, got %s", c.DiscountPercent())
	}
	assertAmount(t, "total", c.Total(), "0.00")
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Fatalf("%s = %s, want %s", label, got.StringFixed(2), want)
	}
}
