package db

import (
	"context"
	"time"

	"robolab/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Login sessions

func (r *Repo) CreateLoginSession(ctx context.Context, u *models.User, ip, ua string, now time.Time) (*models.LoginSession, error) {
	s := &models.LoginSession{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserEmail: u.Email,
		UserName:  u.Name,
		UserRole:  u.Role,
		LoginTime: now,
		IsActive:  true,
		IPAddress: ip,
		UserAgent: ua,
	}
	if err := r.DB.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// EndUserSessions closes every active session of the user, stamping logout
// time and duration, and flips the user's active flag off.
func (r *Repo) EndUserSessions(ctx context.Context, userID string, now time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open []models.LoginSession
		if err := tx.Where("user_id = ? AND is_active = ?", userID, true).Find(&open).Error; err != nil {
			return err
		}
		for _, s := range open {
			dur := int64(now.Sub(s.LoginTime) / time.Second)
			if err := tx.Model(&models.LoginSession{}).
				Where("id = ?", s.ID).
				Updates(map[string]interface{}{
					"logout_time":      now,
					"session_duration": dur,
					"is_active":        false,
				}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_active", false).Error
	})
}

func (r *Repo) ListLoginSessions(ctx context.Context) ([]models.LoginSession, error) {
	var ss []models.LoginSession
	err := r.DB.WithContext(ctx).Order("login_time DESC").Find(&ss).Error
	return ss, err
}
