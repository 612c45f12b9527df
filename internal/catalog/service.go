package catalog

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/rb-dev78/tillpos/pkg/errors"
)

// Product is the authoritative record for one sellable item. The catalog is
// its sole owner: lookups hand out copies, and stock changes only through
// Restock and ReduceStock. Name, price, and category are immutable after
// registration.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
}

// Available reports whether at least quantity units are in stock.
func (p Product) Available(quantity int) bool {
	return p.Stock >= quantity
}

// StockDetails rides on insufficient-stock errors for diagnostics.
type StockDetails struct {
	Product   string `json:"product"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// RegisterInput holds the payload to register a new product.
type RegisterInput struct {
	Name     string `validate:"required"`
	Price    decimal.Decimal
	Category string `validate:"required"`
	Stock    int    `validate:"min=0"`
}

// ListInput filters a catalog listing.
type ListInput struct {
	Category    string
	InStockOnly bool
}

// Service exposes catalog and stock management operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (Product, error)
	Get(ctx context.Context, id int) (Product, error)
	List(ctx context.Context, input ListInput) []Product
	Categories(ctx context.Context) []string
	Restock(ctx context.Context, id, qty int) (Product, error)
	ReduceStock(ctx context.Context, id, qty int) (Product, error)
}

type service struct {
	products map[int]*Product
	nextID   int
}

// NewService builds an empty in-memory catalog. Product ids start at 1 and
// are never reused.
func NewService() Service {
	return &service{
		products: map[int]*Product{},
		nextID:   1,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})
	return v
}

func (s *service) Register(ctx context.Context, input RegisterInput) (Product, error) {
	if err := validate.Struct(input); err != nil {
		return Product{}, formatValidationErrors(err)
	}
	if input.Price.IsNegative() {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeValidation, "price cannot be negative: %s", input.Price)
	}

	product := Product{
		ID:       s.nextID,
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
		Stock:    input.Stock,
	}
	s.products[product.ID] = &product
	s.nextID++
	return product, nil
}

func (s *service) Get(ctx context.Context, id int) (Product, error) {
	product, ok := s.products[id]
	if !ok {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "no product with id %d", id)
	}
	return *product, nil
}

// List returns a filtered snapshot sorted by (category, name). It is
// recomputed on every call since stock moves between calls.
func (s *service) List(ctx context.Context, input ListInput) []Product {
	listed := make([]Product, 0, len(s.products))
	for _, product := range s.products {
		if input.Category != "" && !strings.EqualFold(product.Category, input.Category) {
			continue
		}
		if input.InStockOnly && product.Stock <= 0 {
			continue
		}
		listed = append(listed, *product)
	}
	sort.Slice(listed, func(i, j int) bool {
		if listed[i].Category != listed[j].Category {
			return listed[i].Category < listed[j].Category
		}
		return listed[i].Name < listed[j].Name
	})
	return listed
}

func (s *service) Categories(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, product := range s.products {
		seen[product.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func (s *service) Restock(ctx context.Context, id, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeValidation, "restock quantity must be positive, got %d", qty)
	}
	product, ok := s.products[id]
	if !ok {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "no product with id %d", id)
	}
	product.Stock += qty
	return *product, nil
}

func (s *service) ReduceStock(ctx context.Context, id, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be positive, got %d", qty)
	}
	product, ok := s.products[id]
	if !ok {
		return Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "no product with id %d", id)
	}
	if product.Stock < qty {
		return Product{}, pkgerrors.Newf(
			pkgerrors.CodeInsufficientStock,
			"cannot reduce stock of %q by %d: only %d in stock", product.Name, qty, product.Stock,
		).WithDetails(StockDetails{
			Product:   product.Name,
			Requested: qty,
			Available: product.Stock,
		})
	}
	product.Stock -= qty
	return *product, nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return "is invalid"
}
