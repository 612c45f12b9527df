package register

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rb-dev78/tillpos/internal/cart"
	"github.com/rb-dev78/tillpos/internal/catalog"
	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
	"github.com/rb-dev78/tillpos/pkg/metrics"
	"github.com/rb-dev78/tillpos/pkg/money"
)

type productCatalog interface {
	Get(ctx context.Context, id int) (catalog.Product, error)
	ReduceStock(ctx context.Context, id, qty int) (catalog.Product, error)
}

// PaymentDetails rides on insufficient-payment errors for diagnostics.
type PaymentDetails struct {
	Total   decimal.Decimal `json:"total"`
	Payment decimal.Decimal `json:"payment"`
}

// Service is the transaction controller: it owns the active cart, resolves
// product ids against the catalog, and settles checkouts into receipts.
type Service interface {
	OpenTransaction(ctx context.Context)
	AddToCart(ctx context.Context, productID, quantity int) error
	RemoveFromCart(ctx context.Context, productID int, quantity *int) error
	ApplyDiscount(ctx context.Context, percent decimal.Decimal) error
	Cart() *cart.Cart
	Checkout(ctx context.Context, payment decimal.Decimal) (*Receipt, error)
	LastReceipt() *Receipt
	TransactionCount() int
}

type service struct {
	catalog     productCatalog
	cart        *cart.Cart
	taxRate     decimal.Decimal
	transaction int
	last        *Receipt
	metrics     *metrics.CheckoutMetrics
	now         func() time.Time
}

// ServiceParams collects the register dependencies.
type ServiceParams struct {
	Catalog catalog.Service
	TaxRate decimal.Decimal
	Metrics *metrics.CheckoutMetrics
	Now     func() time.Time
}

// NewService builds a register over the provided catalog. The tax rate comes
// from startup configuration and is fixed for the register's lifetime.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.TaxRate.IsNegative() || params.TaxRate.GreaterThan(money.Hundred) {
		return nil, fmt.Errorf("tax rate %s out of range [0,100]", params.TaxRate)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		catalog: params.Catalog,
		cart:    cart.New(params.TaxRate),
		taxRate: params.TaxRate,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// OpenTransaction discards any in-progress lines and starts fresh.
func (s *service) OpenTransaction(ctx context.Context) {
	s.cart.Clear()
}

func (s *service) AddToCart(ctx context.Context, productID, quantity int) error {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return err
	}
	return s.cart.Add(product, quantity)
}

func (s *service) RemoveFromCart(ctx context.Context, productID int, quantity *int) error {
	return s.cart.Remove(productID, quantity)
}

func (s *service) ApplyDiscount(ctx context.Context, percent decimal.Decimal) error {
	return s.cart.ApplyDiscount(percent)
}

func (s *service) Cart() *cart.Cart {
	return s.cart
}

// Checkout settles the open transaction: it validates payment against the
// cart total, deducts stock for every line, snapshots a receipt, and clears
// the cart. Validation failures leave the cart and the catalog untouched.
//
// Stock was already validated when each line was added, so a reduction
// failure here means the catalog changed underneath the cart. That cannot
// happen with a single register per catalog; sharing a catalog between
// registers would need synchronization around the check-then-decrement.
func (s *service) Checkout(ctx context.Context, payment decimal.Decimal) (*Receipt, error) {
	if s.cart.IsEmpty() {
		err := pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot checkout: the cart is empty")
		s.metrics.IncFailure(string(err.Code()))
		return nil, err
	}

	totals := s.cart.Totals()
	payment = money.Round2(payment)
	if payment.LessThan(totals.Total) {
		err := pkgerrors.Newf(
			pkgerrors.CodeInsufficientPayment,
			"insufficient payment: total is %s, payment is %s", money.Format(totals.Total), money.Format(payment),
		).WithDetails(PaymentDetails{Total: totals.Total, Payment: payment})
		s.metrics.IncFailure(string(err.Code()))
		return nil, err
	}

	s.transaction++

	for _, line := range s.cart.Lines() {
		if _, err := s.catalog.ReduceStock(ctx, line.Product.ID, line.Quantity); err != nil {
			s.metrics.IncFailure(string(pkgerrors.CodeInternal))
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err,
				fmt.Sprintf("stock reduction failed for product %d after add-time validation", line.Product.ID))
		}
	}

	receipt := &Receipt{
		TransactionID:   s.transaction,
		Reference:       uuid.New(),
		Lines:           s.cart.Lines(),
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		TaxRate:         s.taxRate,
		TaxAmount:       totals.TaxAmount,
		Total:           totals.Total,
		Payment:         payment,
		Change:          money.Round2(payment.Sub(totals.Total)),
		CreatedAt:       s.now(),
	}

	s.last = receipt
	s.cart.Clear()

	total, _ := totals.Total.Float64()
	s.metrics.ObserveSale(total)

	return receipt, nil
}

func (s *service) LastReceipt() *Receipt {
	return s.last
}

func (s *service) TransactionCount() int {
	return s.transaction
}
