package service

import (
	"context"

	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

type CustomersService struct {
	Repo   *repo.GormRepo
	Events *Events
}

func toCustomerUpdate(c *models.Customer) *transport.CustomerUpdate {
	return &transport.CustomerUpdate{ID: c.ID, Name: c.Name}
}

func (s *CustomersService) Find(ctx context.Context, id int64) (*transport.CustomerUpdate, error) {
	c, err := s.Repo.FindCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerUpdate(c), nil
}

func (s *CustomersService) List(ctx context.Context, p *repo.ListParams) ([]transport.CustomerListItem, error) {
	rows, err := s.Repo.ListCustomers(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]transport.CustomerListItem, len(rows))
	for i, c := range rows {
		out[i] = transport.CustomerListItem{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

func (s *CustomersService) Insert(ctx context.Context, m transport.CustomerInsert) (*transport.CustomerUpdate, error) {
	c := &models.Customer{Name: m.Name}
	if err := s.Repo.AddCustomer(ctx, c); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("customer_inserted", "svc", "customers.insert", "id", c.ID)
	s.Events.Emit(ctx, EventInserted, models.EntityCustomers, c.ID, toCustomerUpdate(c))
	return toCustomerUpdate(c), nil
}

func (s *CustomersService) Update(ctx context.Context, m transport.CustomerUpdate) (*transport.CustomerUpdate, error) {
	var c *models.Customer
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if c, err = tx.FindCustomer(ctx, m.ID); err != nil {
			return err
		}
		c.Name = m.Name
		return tx.UpdateCustomer(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.Events.Emit(ctx, EventUpdated, models.EntityCustomers, c.ID, toCustomerUpdate(c))
	return toCustomerUpdate(c), nil
}

func (s *CustomersService) Remove(ctx context.Context, ids ...int64) error {
	if err := removeAll(ctx, s.Repo, ids, (*repo.GormRepo).RemoveCustomer); err != nil {
		logging.FromContext(ctx).Warn("remove_customers_failed", "svc", "customers.remove", "ids", ids, "error", err)
		return err
	}
	for _, id := range ids {
		s.Events.Emit(ctx, EventRemoved, models.EntityCustomers, id, nil)
	}
	return nil
}

// removeAll soft-deletes every id in one transaction. The first failure
// rolls the whole call back and is returned.
func removeAll(ctx context.Context, r *repo.GormRepo, ids []int64, remove func(*repo.GormRepo, context.Context, int64) error) error {
	if len(ids) == 0 {
		return nil
	}
	return r.Transaction(ctx, func(tx *repo.GormRepo) error {
		for _, id := range ids {
			if err := remove(tx, ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
