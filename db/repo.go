package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"robolab/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, asNotFound(err, "user "+id)
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, asNotFound(err, "user "+email)
	}
	return &u, nil
}

// TouchUserLogin 登录快照：计数自增，时间取参数避免并发覆盖
func (r *Repo) TouchUserLogin(ctx context.Context, userID string, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_seen_at":  now,
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"is_active":     true,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now().UTC()).Error
}

func (r *Repo) SetUserActive(ctx context.Context, userID string, active bool) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", active).Error
}

func (r *Repo) ListAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

// ListAdmins returns every admin account; submit notifications fan out here.
func (r *Repo) ListAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	err := r.DB.WithContext(ctx).Where("role = ?", models.RoleAdmin).Find(&admins).Error
	return admins, err
}

// 列表（分页 + 关键词，匹配姓名/邮箱/学号）
type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(roll_no) LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return asNotFound(gorm.ErrRecordNotFound, "user "+id)
	}
	return nil
}

func (r *Repo) FindOrCreateStudent(ctx context.Context, email, name, newID string, now time.Time) (*models.User, error) {
	u, err := r.FindUserByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	created := &models.User{
		ID:           newID,
		Name:         name,
		Email:        strings.ToLower(email),
		Role:         models.RoleStudent,
		RegisteredAt: now,
	}
	if err := r.CreateUser(ctx, created); err != nil {
		return nil, err
	}
	welcome := &models.Notification{
		ID:      uuid.NewString(),
		UserID:  created.ID,
		Title:   "Welcome to the Lab",
		Message: "Your account has been created. You can now request components from the inventory.",
		Type:    models.NotifInfo,
	}
	if err := r.AddNotification(ctx, welcome); err != nil {
		return nil, err
	}
	return created, nil
}
