package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/metrics"
)

type OrderProductsService struct {
	Repo    *repo.GormRepo
	Events  *Events
	Metrics *metrics.Metrics
}

type batchCounts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

func (s *OrderProductsService) List(ctx context.Context, orderID int64, p *repo.ListParams) ([]transport.OrderProductListItem, error) {
	if _, err := s.Repo.FindOrder(ctx, orderID); err != nil {
		return nil, err
	}

	rows, err := s.Repo.ListOrderProducts(ctx, orderID, p)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OrderProductListItem, len(rows))
	for i, row := range rows {
		out[i] = transport.OrderProductListItem{
			ID:          row.ID,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Qty:         row.Qty,
			UnitPrice:   row.UnitPrice,
			Total:       row.Total(),
		}
	}
	return out, nil
}

// BatchUpdate applies adds, updates and deletes to one order's line items as
// a single unit. Entries are processed in the order given; nothing is kept
// unless every entry succeeds.
func (s *OrderProductsService) BatchUpdate(ctx context.Context, orderID int64, batch transport.OrderProductsBatch) error {
	l := logging.FromContext(ctx).With("svc", "order_products.batch_update", "order_id", orderID)

	if _, err := s.Repo.FindOrder(ctx, orderID); err != nil {
		return err
	}
	if batch.Empty() {
		return nil
	}

	var counts batchCounts
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		counts = batchCounts{}

		for _, e := range batch.EntitiesToAddUpdate {
			if e.ID <= 0 {
				op := &models.OrderProduct{OrderID: orderID, ProductID: e.ProductID, Qty: e.Qty}
				if err := tx.AddOrderProduct(ctx, op); err != nil {
					var vf *apperr.ValidationFailure
					if errors.As(err, &vf) {
						return vf.WithID(e.ID)
					}
					return err
				}
				counts.Added++
				continue
			}

			op, err := tx.FindOrderProduct(ctx, orderID, e.ID)
			if err != nil {
				return err
			}
			op.ProductID = e.ProductID
			op.Qty = e.Qty
			if err := tx.UpdateOrderProduct(ctx, op); err != nil {
				return err
			}
			counts.Updated++
		}

		for _, id := range batch.EntitiesToDelete {
			if err := tx.RemoveOrderProduct(ctx, orderID, id); err != nil {
				return err
			}
			counts.Deleted++
		}
		return nil
	})
	if err != nil {
		l.Warn("batch_update_failed", "error", err)
		return err
	}

	s.Metrics.BatchItems("add", counts.Added)
	s.Metrics.BatchItems("update", counts.Updated)
	s.Metrics.BatchItems("delete", counts.Deleted)
	l.Info("batch_update_success", "added", counts.Added, "updated", counts.Updated, "deleted", counts.Deleted)
	s.Events.Emit(ctx, EventBatchUpdated, models.EntityOrders, orderID, counts)
	return nil
}
