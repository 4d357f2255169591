package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/smartintruesdell/CubeCobra/internal/repository"
	"gorm.io/gorm"
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	default:
		return err
	}
}

// compareAndSwap writes updates to the row whose key column equals key only if
// its version still equals version. The version column is bumped in the same
// statement.
func compareAndSwap(ctx context.Context, db *gorm.DB, model any, keyColumn string, key any, version int, updates map[string]any) error {
	updates["version"] = version + 1
	updates["updated_at"] = time.Now()

	res := db.WithContext(ctx).
		Model(model).
		Where(keyColumn+" = ? AND version = ?", key, version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrStaleVersion
	}
	return nil
}

// createFirstVersion inserts a versioned row that did not exist yet. Losing
// the race to another insert is reported as a stale version.
func createFirstVersion(ctx context.Context, db *gorm.DB, value any) error {
	err := db.WithContext(ctx).Create(value).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repository.ErrStaleVersion
	}
	return err
}
