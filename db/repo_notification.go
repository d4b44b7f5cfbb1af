package db

import (
	"context"

	"robolab/models"

	"gorm.io/gorm"
)

// Notifications

func (r *Repo) AddNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *Repo) ListUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&ns).Error
	return ns, err
}

func (r *Repo) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkNotificationRead flips the read flag. Scoped to the owning user so one
// student cannot mark another's notifications.
func (r *Repo) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return asNotFound(gorm.ErrRecordNotFound, "notification "+notificationID)
	}
	return nil
}
