package db

import (
	"context"
	"time"

	"robolab/models"
)

// SystemStats is a read-only snapshot derived from the live collections on
// every call; there are no counters to drift out of sync with the lifecycle.
type SystemStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	ActiveUsers     int64 `json:"activeUsers"`
	TotalLogins     int64 `json:"totalLogins"`
	OnlineUsers     int64 `json:"onlineUsers"`
	TotalRequests   int64 `json:"totalRequests"`
	PendingRequests int64 `json:"pendingRequests"`
	TotalComponents int64 `json:"totalComponents"`
	OverdueItems    int64 `json:"overdueItems"`
}

func (r *Repo) SystemStats(ctx context.Context, now time.Time) (*SystemStats, error) {
	db := r.DB.WithContext(ctx)
	var s SystemStats

	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&s.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).
		Select("COALESCE(SUM(login_count), 0)").
		Scan(&s.TotalLogins).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.LoginSession{}).Where("is_active = ?", true).Count(&s.OnlineUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.BorrowRequest{}).Count(&s.TotalRequests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.BorrowRequest{}).
		Where("status = ?", models.StatusPending).
		Count(&s.PendingRequests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Component{}).Count(&s.TotalComponents).Error; err != nil {
		return nil, err
	}
	// Overdue matches the due-date evaluator: approved and past due. Rejected
	// and returned requests are never overdue regardless of date.
	if err := db.Model(&models.BorrowRequest{}).
		Where("status = ? AND due_date < ?", models.StatusApproved, now).
		Count(&s.OverdueItems).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
