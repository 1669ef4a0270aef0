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

func (r *GormRepo) FindCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	err := r.DB.WithContext(ctx).Scopes(live(models.TableCustomers)).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(models.EntityCustomers, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return &c, nil
}

// ListCustomers supports a case-insensitive "Name" contains filter and orders by name.
func (r *GormRepo) ListCustomers(ctx context.Context, p *ListParams) ([]models.Customer, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}

	q := r.DB.WithContext(ctx).Model(&models.Customer{}).Scopes(live(models.TableCustomers))
	if name, ok := p.StringFilter("Name"); ok {
		q = containsFold(q, "name", name)
	}

	var out []models.Customer
	if err := p.paginate(q.Order("name ASC").Order("id ASC")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *GormRepo) ValidateCustomer(ctx context.Context, c *models.Customer) error {
	res := apperr.ValidationResult{}

	if strings.TrimSpace(c.Name) == "" {
		res.Set("Name", "required")
	} else {
		taken, err := nameTaken(ctx, r.DB, models.TableCustomers, "name", c.Name, c.ID)
		if err != nil {
			return err
		}
		if taken {
			res.Set("Name", "exists")
		}
	}

	return apperr.Check(models.EntityCustomers, c.ID, res)
}

func (r *GormRepo) AddCustomer(ctx context.Context, c *models.Customer) error {
	if err := r.ValidateCustomer(ctx, c); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("add customer: %w", err)
	}
	return nil
}

func (r *GormRepo) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	if err := r.ValidateCustomer(ctx, c); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Model(&models.Customer{ID: c.ID}).
		Select("name").
		Updates(c).Error
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return nil
}

func (r *GormRepo) RemoveCustomer(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, &models.Customer{}, models.TableCustomers, models.EntityCustomers, id)
}
