package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
)

type OrdersService struct {
	Repo   *repo.GormRepo
	Events *Events
	Now    func() time.Time
}

func toOrderDisplay(v *models.OrderView) transport.OrderDisplay {
	return transport.OrderDisplay{
		ID:           v.ID,
		CreatedOn:    v.CreatedOn,
		CustomerID:   v.CustomerID,
		CustomerName: v.CustomerName,
		Total:        v.Total,
	}
}

func (s *OrdersService) Find(ctx context.Context, id int64) (*transport.OrderDisplay, error) {
	v, err := s.Repo.FindOrderView(ctx, id)
	if err != nil {
		return nil, err
	}
	d := toOrderDisplay(v)
	return &d, nil
}

func (s *OrdersService) List(ctx context.Context, p *repo.ListParams) ([]transport.OrdersListItem, error) {
	views, err := s.Repo.ListOrders(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OrdersListItem, len(views))
	for i := range views {
		out[i] = toOrderDisplay(&views[i])
	}
	return out, nil
}

func (s *OrdersService) Total(ctx context.Context, id int64) (decimal.Decimal, error) {
	return s.Repo.OrderTotal(ctx, id)
}

func (s *OrdersService) Insert(ctx context.Context, m transport.OrderInsert) (*transport.OrderUpdate, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	o := &models.Order{CustomerID: m.CustomerID}
	if err := s.Repo.AddOrder(ctx, o, now()); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("order_inserted", "svc", "orders.insert", "id", o.ID)

	out := &transport.OrderUpdate{ID: o.ID, CustomerID: o.CustomerID}
	s.Events.Emit(ctx, EventInserted, models.EntityOrders, o.ID, out)
	return out, nil
}

// Update only moves an order to another customer; CreatedOn is kept.
func (s *OrdersService) Update(ctx context.Context, m transport.OrderUpdate) (*transport.OrderUpdate, error) {
	var o *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		if o, err = tx.FindOrder(ctx, m.ID); err != nil {
			return err
		}
		o.CustomerID = m.CustomerID
		return tx.UpdateOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	out := &transport.OrderUpdate{ID: o.ID, CustomerID: o.CustomerID}
	s.Events.Emit(ctx, EventUpdated, models.EntityOrders, o.ID, out)
	return out, nil
}

func (s *OrdersService) Remove(ctx context.Context, ids ...int64) error {
	if err := removeAll(ctx, s.Repo, ids, (*repo.GormRepo).RemoveOrder); err != nil {
		logging.FromContext(ctx).Warn("remove_orders_failed", "svc", "orders.remove", "ids", ids, "error", err)
		return err
	}
	for _, id := range ids {
		s.Events.Emit(ctx, EventRemoved, models.EntityOrders, id, nil)
	}
	return nil
}
