package repo

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
)

func (r *GormRepo) FindUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Scopes(live(models.TableUsers)).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(models.EntityUsers, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &u, nil
}

// FindUserByUsername matches the username ignoring case. A miss returns ErrNotFound.
func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).
		Scopes(live(models.TableUsers)).
		Where("LOWER(username) = LOWER(?)", username).
		Order("id ASC").
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &u, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, p *ListParams) ([]models.User, error) {
	if err := checkParams(p); err != nil {
		return nil, err
	}

	q := r.DB.WithContext(ctx).Model(&models.User{}).Scopes(live(models.TableUsers))
	if username, ok := p.StringFilter("Username"); ok {
		q = containsFold(q, "username", username)
	}

	var out []models.User
	if err := p.paginate(q.Order("username ASC").Order("id ASC")).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *GormRepo) ValidateUser(ctx context.Context, u *models.User) error {
	res := apperr.ValidationResult{}

	if strings.TrimSpace(u.Username) == "" {
		res.Set("Username", "required")
	} else {
		taken, err := nameTaken(ctx, r.DB, models.TableUsers, "username", u.Username, u.ID)
		if err != nil {
			return err
		}
		if taken {
			res.Set("Username", "exists")
		}
	}

	if u.Email != "" {
		if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
			res.Set("Email", "invalid")
		}
	}

	return apperr.Check(models.EntityUsers, u.ID, res)
}

// AddUser expects u.Password to already hold a password hash.
func (r *GormRepo) AddUser(ctx context.Context, u *models.User) error {
	if err := r.ValidateUser(ctx, u); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// UpdateUser never touches the stored password.
func (r *GormRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if err := r.ValidateUser(ctx, u); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Model(&models.User{ID: u.ID}).
		Select("email", "name", "username").
		Updates(u).Error
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (r *GormRepo) RemoveUser(ctx context.Context, id int64) error {
	return softDelete(ctx, r.DB, &models.User{}, models.TableUsers, models.EntityUsers, id)
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
