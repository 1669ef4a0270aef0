package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
)

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("add refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken looks a token up by its value and the owner's username
// (ignoring case). The owner may since have been soft-deleted; callers check.
// Inside a transaction the row is locked for update.
func (r *GormRepo) FindRefreshToken(ctx context.Context, username, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: models.TableRefreshTokens}}).
		Joins("JOIN security_users ON security_users.id = security_refresh_tokens.user_id").
		Where("LOWER(security_users.username) = LOWER(?)", username).
		Where("security_refresh_tokens.token = ?", token).
		Order("security_refresh_tokens.id DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &t, nil
}

// RevokeRefreshToken stamps RevokedOn. A token that is already revoked yields
// ErrTokenInvalid, so two concurrent rotations cannot both succeed.
func (r *GormRepo) RevokeRefreshToken(ctx context.Context, id int64, now time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_on IS NULL", id).
		Update("revoked_on", now.UTC())
	if res.Error != nil {
		return fmt.Errorf("revoke refresh token %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrTokenInvalid
	}
	return nil
}
