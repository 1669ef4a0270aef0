package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
)

func (r *GormRepo) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.DB.WithContext(ctx).Scopes(live(models.TableProducts)).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(models.EntityProducts, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, p *ListParams) ([]models.Product, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}

	q := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(live(models.TableProducts))
	if name, ok := p.StringFilter("Name"); ok {
		q = containsFold(q, "name", name)
	}

	var out []models.Product
	if err := p.paginate(q.Order("name ASC").Order("id ASC")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *GormRepo) ValidateProduct(ctx context.Context, p *models.Product) error {
	res := apperr.ValidationResult{}

	if strings.TrimSpace(p.Name) == "" {
		res.Set("Name", "required")
	} else {
		taken, err := nameTaken(ctx, r.DB, models.TableProducts, "name", p.Name, p.ID)
		if err != nil {
			return err
		}
		if taken {
			res.Set("Name", "exists")
		}
	}

	if p.UnitPrice.IsNegative() {
		res.Set("UnitPrice", "min")
	}

	return apperr.Check(models.EntityProducts, p.ID, res)
}

func (r *GormRepo) AddProduct(ctx context.Context, p *models.Product) error {
	if err := r.ValidateProduct(ctx, p); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("add product: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := r.ValidateProduct(ctx, p); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Model(&models.Product{ID: p.ID}).
		Select("name", "unit_price").
		Updates(p).Error
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

func (r *GormRepo) RemoveProduct(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, &models.Product{}, models.TableProducts, models.EntityProducts, id)
}
