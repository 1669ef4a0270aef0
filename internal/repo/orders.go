package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
)

const orderViewColumns = "stock_orders.id, stock_orders.created_on, stock_orders.customer_id, " +
	"general_customers.name AS customer_name"

func (r *GormRepo) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Scopes(live(models.TableOrders)).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(models.EntityOrders, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	return &o, nil
}

func (r *GormRepo) orderViews(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.TableOrders).
		Select(orderViewColumns).
		Joins("LEFT JOIN general_customers ON general_customers.id = stock_orders.customer_id").
		Scopes(live(models.TableOrders))
}

// FindOrderView loads a live order with its customer name and total.
func (r *GormRepo) FindOrderView(ctx context.Context, id int64) (*models.OrderView, error) {
	var views []models.OrderView
	if err := r.orderViews(ctx).Where("stock_orders.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	if len(views) == 0 {
		return nil, notFound(models.EntityOrders, id)
	}
	if err := r.fillTotals(ctx, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListOrders supports a "CustomerID" equality filter and orders by id descending.
func (r *GormRepo) ListOrders(ctx context.Context, p *ListParams) ([]models.OrderView, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}

	q := r.orderViews(ctx)
	if customerID, ok := p.Int64Filter("CustomerID"); ok {
		q = q.Where("stock_orders.customer_id = ?", customerID)
	}

	var views []models.OrderView
	if err := p.paginate(q.Order("stock_orders.id DESC")).Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := r.fillTotals(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *GormRepo) fillTotals(ctx context.Context, views []models.OrderView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]int64, len(views))
	for i := range views {
		ids[i] = views[i].ID
	}

	totals, err := r.orderTotals(ctx, ids)
	if err != nil {
		return err
	}
	for i := range views {
		views[i].Total = totals[views[i].ID]
	}
	return nil
}

func (r *GormRepo) orderTotals(ctx context.Context, orderIDs []int64) (map[int64]decimal.Decimal, error) {
	var items []models.OrderProduct
	err := r.DB.WithContext(ctx).
		Scopes(live(models.TableOrdersProducts)).
		Where("order_id IN ?", orderIDs).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	totals := make(map[int64]decimal.Decimal, len(orderIDs))
	for _, id := range orderIDs {
		totals[id] = decimal.Zero
	}
	for _, it := range items {
		totals[it.OrderID] = totals[it.OrderID].Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return totals, nil
}

// OrderTotal sums qty times unit price over the live items of a live order.
func (r *GormRepo) OrderTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	if _, err := r.FindOrder(ctx, orderID); err != nil {
		return decimal.Zero, err
	}
	totals, err := r.orderTotals(ctx, []int64{orderID})
	if err != nil {
		return decimal.Zero, err
	}
	return totals[orderID], nil
}

func (r *GormRepo) ValidateOrder(ctx context.Context, o *models.Order) error {
	res := apperr.ValidationResult{}

	if o.CustomerID <= 0 {
		res.Set("CustomerID", "invalid")
	} else {
		ok, err := liveExists(ctx, r.DB, models.TableCustomers, o.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			res.Set("CustomerID", "invalid")
		}
	}

	return apperr.Check(models.EntityOrders, o.ID, res)
}

// AddOrder stamps CreatedOn with now; it is never changed afterwards.
func (r *GormRepo) AddOrder(ctx context.Context, o *models.Order, now time.Time) error {
	if err := r.ValidateOrder(ctx, o); err != nil {
		return err
	}
	o.CreatedOn = now.UTC()
	if err := r.DB.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("add order: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, o *models.Order) error {
	if err := r.ValidateOrder(ctx, o); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Model(&models.Order{ID: o.ID}).
		Select("customer_id").
		Updates(o).Error
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	return nil
}

func (r *GormRepo) RemoveOrder(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, &models.Order{}, models.TableOrders, models.EntityOrders, id)
}
