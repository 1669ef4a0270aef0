// Package seed fills an empty database with demo data.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	pkghash "github.com/Skotchmaster/ordermanagement/pkg/hash"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

const (
	AdminUsername = "administrator"
	AdminPassword = "password"
)

type item struct {
	product int
	qty     int
}

// orders lists, per order, the customer index and its line items.
var orders = []struct {
	customer int
	items    []item
}{
	{customer: 0, items: []item{{0, 50}, {1, 20}, {2, 10}}},
	{customer: 0, items: []item{{1, 80}, {2, 60}}},
	{customer: 0, items: []item{{2, 250}}},
	{customer: 1},
	{customer: 1},
	{customer: 2},
}

// Run seeds users, customers, products and orders in one transaction. It does
// nothing when any user row exists. It reports whether data was written.
func Run(ctx context.Context, r *repo.GormRepo, bcryptCost int, now time.Time) (bool, error) {
	l := logging.FromContext(ctx).With("component", "seed")

	n, err := r.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		l.Debug("seed_skipped", "users", n)
		return false, nil
	}

	hash, err := pkghash.HashPassword(AdminPassword, bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash seed password: %w", err)
	}

	err = r.Transaction(ctx, func(tx *repo.GormRepo) error {
		users := []*models.User{
			{Username: AdminUsername, Name: "Administrator", Email: "admin@ordermanagement.local", Password: hash},
			{Username: "operator", Name: "Operator", Email: "operator@ordermanagement.local"},
		}
		for _, u := range users {
			if err := tx.AddUser(ctx, u); err != nil {
				return err
			}
		}

		customers := make([]*models.Customer, 3)
		for i := range customers {
			customers[i] = &models.Customer{Name: fmt.Sprintf("Customer %d", i+1)}
			if err := tx.AddCustomer(ctx, customers[i]); err != nil {
				return err
			}
		}

		products := make([]*models.Product, 3)
		for i, name := range []string{"Product A", "Product B", "Product C"} {
			products[i] = &models.Product{Name: name, UnitPrice: decimal.NewFromInt(int64(i+1) * 100)}
			if err := tx.AddProduct(ctx, products[i]); err != nil {
				return err
			}
		}

		for _, o := range orders {
			order := &models.Order{CustomerID: customers[o.customer].ID}
			if err := tx.AddOrder(ctx, order, now); err != nil {
				return err
			}
			for _, it := range o.items {
				op := &models.OrderProduct{OrderID: order.ID, ProductID: products[it.product].ID, Qty: it.qty}
				if err := tx.AddOrderProduct(ctx, op); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	l.Info("seed_done", "orders", len(orders))
	return true, nil
}
