package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
)

// FindOrderProduct loads a live line item that belongs to orderID.
func (r *GormRepo) FindOrderProduct(ctx context.Context, orderID, id int64) (*models.OrderProduct, error) {
	var op models.OrderProduct
	err := r.DB.WithContext(ctx).
		Scopes(live(models.TableOrdersProducts)).
		Where("id = ? AND order_id = ?", id, orderID).
		First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(models.EntityOrdersProducts, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find order product %d: %w", id, err)
	}
	return &op, nil
}

// ListOrderProducts returns the live items of one order, product name descending.
func (r *GormRepo) ListOrderProducts(ctx context.Context, orderID int64, p *ListParams) ([]models.OrderProductView, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}

	q := r.DB.WithContext(ctx).
		Table(models.TableOrdersProducts).
		Select("stock_orders_products.id, stock_orders_products.product_id, " +
			"stock_products.name AS product_name, stock_orders_products.qty, stock_orders_products.unit_price").
		Joins("LEFT JOIN stock_products ON stock_products.id = stock_orders_products.product_id").
		Scopes(live(models.TableOrdersProducts)).
		Where("stock_orders_products.order_id = ?", orderID).
		Order("stock_products.name DESC").
		Order("stock_orders_products.id ASC")

	var out []models.OrderProductView
	if err := p.paginate(q).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list order products: %w", err)
	}
	return out, nil
}

// ValidateOrderProduct checks the product reference and quantity. When the
// product is live its current price is copied onto the item.
func (r *GormRepo) ValidateOrderProduct(ctx context.Context, op *models.OrderProduct) error {
	res := apperr.ValidationResult{}

	product, err := r.FindProduct(ctx, op.ProductID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		res.Set("ProductID", "invalid")
	case err != nil:
		return err
	default:
		op.UnitPrice = product.UnitPrice
	}

	if op.Qty <= 0 {
		res.Set("Qty", "min")
	}

	return apperr.Check(models.EntityOrdersProducts, op.ID, res)
}

func (r *GormRepo) AddOrderProduct(ctx context.Context, op *models.OrderProduct) error {
	if err := r.ValidateOrderProduct(ctx, op); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(op).Error; err != nil {
		return fmt.Errorf("add order product: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateOrderProduct(ctx context.Context, op *models.OrderProduct) error {
	if err := r.ValidateOrderProduct(ctx, op); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Model(&models.OrderProduct{ID: op.ID}).
		Select("product_id", "qty", "unit_price").
		Updates(op).Error
	if err != nil {
		return fmt.Errorf("update order product %d: %w", op.ID, err)
	}
	return nil
}

func (r *GormRepo) RemoveOrderProduct(ctx context.Context, orderID, id int64) error {
	res := r.DB.WithContext(ctx).Model(&models.OrderProduct{}).
		Where("id = ? AND order_id = ?", id, orderID).
		Scopes(live(models.TableOrdersProducts)).
		Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("remove order product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(models.EntityOrdersProducts, id)
	}
	return nil
}
