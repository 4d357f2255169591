package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

// Replace drops every session the user holds and stores session in its place,
// so a user has at most one live refresh token.
func (r *sessionRepository) Replace(ctx context.Context, session *domain.UserSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.UserSession{}, "user_id = ?", session.UserID).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

// Active returns the user's newest session that has not expired at now.
func (r *sessionRepository) Active(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.UserSession{}, "user_id = ?", userID).Error
}
