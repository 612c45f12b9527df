package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type seedProduct struct {
	name     string
	price    string
	category string
	stock    int
}

var demoProducts = []seedProduct{
	{"Coffee", "2.50", "Beverages", 50},
	{"Tea", "1.75", "Beverages", 60},
	{"Orange Juice", "3.00", "Beverages", 30},
	{"Mineral Water", "1.00", "Beverages", 100},

	{"Croissant", "2.25", "Food", 40},
	{"Sandwich", "5.50", "Food", 25},
	{"Muffin", "2.00", "Food", 35},
	{"Salad", "7.00", "Food", 15},

	{"USB Cable", "9.99", "Electronics", 20},
	{"Phone Stand", "14.99", "Electronics", 12},
	{"Earbuds", "29.99", "Electronics", 8},

	{"Notebook", "3.99", "Stationery", 30},
	{"Pen Set", "5.49", "Stationery", 45},
	{"Sticky Notes", "2.49", "Stationery", 50},
}

// Seed registers the demo catalog used by the shipped front ends. A failing
// entry does not stop the rest from registering; all failures are reported
// together.
func Seed(ctx context.Context, svc Service) error {
	var errs []error
	for _, p := range demoProducts {
		if _, err := svc.Register(ctx, RegisterInput{
			Name:     p.name,
			Price:    decimal.RequireFromString(p.price),
			Category: p.category,
			Stock:    p.stock,
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
