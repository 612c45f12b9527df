package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/rb-dev78/tillpos/internal/catalog"
	"github.com/rb-dev78/tillpos/internal/register"
	"github.com/rb-dev78/tillpos/pkg/config"
	"github.com/rb-dev78/tillpos/pkg/instance"
	"github.com/rb-dev78/tillpos/pkg/logger"
	"github.com/rb-dev78/tillpos/pkg/money"
)

type terminal struct {
	catalog  catalog.Service
	register register.Service
	taxRate  decimal.Decimal
	in       *bufio.Scanner
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos", Format: "console"})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	taxRate, err := cfg.Sale.TaxRate()
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate", err)
		os.Exit(1)
	}

	catalogService := catalog.NewService()
	if cfg.Catalog.SeedDemo {
		if err := catalog.Seed(context.Background(), catalogService); err != nil {
			logg.Error(context.Background(), "failed to seed demo catalog", err)
			os.Exit(1)
		}
	}

	registerService, err := register.NewService(register.ServiceParams{
		Catalog: catalogService,
		TaxRate: taxRate,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	term := &terminal{
		catalog:  catalogService,
		register: registerService,
		taxRate:  taxRate,
		in:       bufio.NewScanner(os.Stdin),
	}
	term.run()
}

func (t *terminal) run() {
	ctx := context.Background()
	t.register.OpenTransaction(ctx)

	fmt.Println("\n  Welcome to tillpos!")
	fmt.Printf("  Till: %s\n", instance.GetID())
	fmt.Printf("  Tax rate: %s%%\n", t.taxRate)

	for {
		t.printMenu()
		choice := t.prompt("Select an option:")

		switch choice {
		case "0":
			fmt.Println("\n  Goodbye!")
			return
		case "1":
			t.header("PRODUCT CATALOG")
			t.printProducts(ctx, false)
		case "2":
			t.addItem(ctx)
		case "3":
			t.removeItem(ctx)
		case "4":
			t.header("CURRENT CART")
			t.printCart()
		case "5":
			t.applyDiscount(ctx)
		case "6":
			t.checkout(ctx)
		case "7":
			t.newTransaction(ctx)
		case "8":
			t.lastReceipt()
		default:
			t.failure(fmt.Sprintf("Invalid option %q. Please try again.", choice))
		}
	}
}

func (t *terminal) printMenu() {
	t.header("TILLPOS POINT OF SALE")
	fmt.Println("  [1] View product catalog")
	fmt.Println("  [2] Add item to cart")
	fmt.Println("  [3] Remove item from cart")
	fmt.Println("  [4] View cart")
	fmt.Println("  [5] Apply discount")
	fmt.Println("  [6] Checkout")
	fmt.Println("  [7] New transaction")
	fmt.Println("  [8] Print last receipt")
	fmt.Println("  [0] Exit")
}

func (t *terminal) addItem(ctx context.Context) {
	t.header("ADD ITEM TO CART")
	t.printProducts(ctx, true)

	productID, ok := t.askInt("Product ID:", 1)
	if !ok {
		return
	}
	quantity, ok := t.askInt("Quantity:", 1)
	if !ok {
		return
	}

	if err := t.register.AddToCart(ctx, productID, quantity); err != nil {
		t.failure(err.Error())
		return
	}
	t.success(fmt.Sprintf("Added %d x product #%d to cart.", quantity, productID))
}

func (t *terminal) removeItem(ctx context.Context) {
	t.header("REMOVE ITEM FROM CART")
	t.printCart()
	if t.register.Cart().IsEmpty() {
		return
	}

	productID, ok := t.askInt("Product ID to remove (0 = cancel):", 0)
	if !ok || productID == 0 {
		return
	}

	var quantity *int
	raw := t.prompt("Quantity to remove (leave blank to remove all):")
	if raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			t.failure("Quantity must be a positive integer.")
			return
		}
		quantity = &qty
	}

	if err := t.register.RemoveFromCart(ctx, productID, quantity); err != nil {
		t.failure(err.Error())
		return
	}
	t.success("Item removed from cart.")
}

func (t *terminal) applyDiscount(ctx context.Context) {
	t.header("APPLY DISCOUNT")
	raw := t.prompt("Discount percentage (0-100):")
	percent, err := money.Parse(raw)
	if err != nil {
		t.failure("Please enter a valid number.")
		return
	}
	if err := t.register.ApplyDiscount(ctx, percent); err != nil {
		t.failure(err.Error())
		return
	}
	t.success(fmt.Sprintf("Discount of %s%% applied.", percent))
}

func (t *terminal) checkout(ctx context.Context) {
	t.header("CHECKOUT")
	t.printCart()
	if t.register.Cart().IsEmpty() {
		return
	}

	raw := t.prompt(fmt.Sprintf("Payment amount (total = %s):", money.Format(t.register.Cart().Total())))
	payment, err := money.Parse(raw)
	if err != nil {
		t.failure("Please enter a valid number.")
		return
	}

	receipt, err := t.register.Checkout(ctx, payment)
	if err != nil {
		t.failure(err.Error())
		return
	}
	fmt.Println("\n" + receipt.Render())
	t.success("Transaction complete. Cart has been cleared.")
}

func (t *terminal) newTransaction(ctx context.Context) {
	if !t.register.Cart().IsEmpty() {
		confirm := t.prompt("Cart is not empty. Start new transaction? [y/N]:")
		if !strings.EqualFold(confirm, "y") {
			fmt.Println("  Cancelled.")
			return
		}
	}
	t.register.OpenTransaction(ctx)
	t.success("New transaction started.")
}

func (t *terminal) lastReceipt() {
	t.header("LAST RECEIPT")
	receipt := t.register.LastReceipt()
	if receipt == nil {
		fmt.Println("  No receipt available yet.")
		return
	}
	fmt.Println("\n" + receipt.Render())
}

func (t *terminal) printProducts(ctx context.Context, inStockOnly bool) {
	products := t.catalog.List(ctx, catalog.ListInput{InStockOnly: inStockOnly})
	if len(products) == 0 {
		fmt.Println("  No products available.")
		return
	}
	fmt.Printf("\n  %4s  %-14s %-22s %7s %6s\n", "ID", "Category", "Name", "Price", "Stock")
	fmt.Printf("  %s  %s %s %s %s\n",
		strings.Repeat("-", 4), strings.Repeat("-", 14), strings.Repeat("-", 22),
		strings.Repeat("-", 7), strings.Repeat("-", 6))
	for _, p := range products {
		fmt.Printf("  %4d  %-14s %-22s $%6s %6d\n",
			p.ID, p.Category, p.Name, p.Price.StringFixed(2), p.Stock)
	}
}

func (t *terminal) printCart() {
	c := t.register.Cart()
	if c.IsEmpty() {
		fmt.Println("  Cart is empty.")
		return
	}

	fmt.Printf("\n  %3s  %-22s %4s %7s %8s\n", "#", "Name", "Qty", "Unit", "Sub")
	for i, line := range c.Lines() {
		fmt.Printf("  %3d  %-22s %4d $%6s $%7s\n",
			i+1, line.Product.Name, line.Quantity,
			line.Product.Price.StringFixed(2), line.Subtotal().StringFixed(2))
	}

	totals := c.Totals()
	fmt.Printf("\n  %-34s $%7s\n", "Subtotal", totals.Subtotal.StringFixed(2))
	if !totals.DiscountPercent.IsZero() {
		fmt.Printf("  %-34s -$%6s\n",
			fmt.Sprintf("Discount (%s%%)", totals.DiscountPercent), totals.DiscountAmount.StringFixed(2))
	}
	fmt.Printf("  %-34s $%7s\n", fmt.Sprintf("Tax (%s%%)", totals.TaxRate), totals.TaxAmount.StringFixed(2))
	fmt.Printf("  %-34s $%7s\n", "TOTAL", totals.Total.StringFixed(2))
}

func (t *terminal) header(text string) {
	rule := strings.Repeat("=", 42)
	fmt.Printf("\n%s\n  %s\n%s\n", rule, text, rule)
}

func (t *terminal) prompt(text string) string {
	fmt.Printf("\n%s ", text)
	if !t.in.Scan() {
		return "0"
	}
	return strings.TrimSpace(t.in.Text())
}

func (t *terminal) askInt(text string, minVal int) (int, bool) {
	raw := t.prompt(text)
	value, err := strconv.Atoi(raw)
	if err != nil {
		t.failure("Please enter a valid integer.")
		return 0, false
	}
	if value < minVal {
		t.failure(fmt.Sprintf("Value must be at least %d.", minVal))
		return 0, false
	}
	return value, true
}

func (t *terminal) success(text string) {
	fmt.Println("  + " + text)
}

func (t *terminal) failure(text string) {
	fmt.Println("  ! " + text)
}
