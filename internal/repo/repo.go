package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/ordermanagement/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// Transaction runs fn against a repo bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.Migratable()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// live restricts a query on table to rows that are not soft-deleted.
func live(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".is_deleted = ?", false)
	}
}

func softDelete(ctx context.Context, db *gorm.DB, model any, table, entity string, id int64) error {
	res := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Scopes(live(table)).
		Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("remove %s %d: %w", entity, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(entity, id)
	}
	return nil
}

// nameTaken reports whether another live row of table already uses value in column.
func nameTaken(ctx context.Context, db *gorm.DB, table, column, value string, selfID int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table(table).
		Scopes(live(table)).
		Where("LOWER("+column+") = LOWER(?)", value).
		Where("id <> ?", selfID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

func liveExists(ctx context.Context, db *gorm.DB, table string, id int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Table(table).
		Scopes(live(table)).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check %s %d: %w", table, id, err)
	}
	return count > 0, nil
}
