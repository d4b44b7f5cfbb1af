package db

import (
	"context"

	"robolab/models"

	"gorm.io/gorm"
)

// Components / inventory ledger.
//
// Available quantity is only ever mutated through guarded conditional UPDATEs
// so the [0, total] invariant holds under concurrent writers without row
// locks: the WHERE clause is the compare half of the compare-and-swap and
// RowsAffected tells us whether it applied.

func (r *Repo) CreateComponent(ctx context.Context, c *models.Component) error {
	if c.TotalQuantity < 0 {
		return validationf("total quantity must not be negative")
	}
	c.AvailableQuantity = c.TotalQuantity
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repo) FindComponentByID(ctx context.Context, id string) (*models.Component, error) {
	var c models.Component
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, asNotFound(err, "component "+id)
	}
	return &c, nil
}

func (r *Repo) ListComponents(ctx context.Context) ([]models.Component, error) {
	var cs []models.Component
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&cs).Error
	return cs, err
}

func (r *Repo) UpdateComponentInfo(ctx context.Context, id, name, category, description string) (*models.Component, error) {
	res := r.DB.WithContext(ctx).Model(&models.Component{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        name,
			"category":    category,
			"description": description,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, asNotFound(gorm.ErrRecordNotFound, "component "+id)
	}
	return r.FindComponentByID(ctx, id)
}

// ReserveComponent decrements availability by qty. Fails with
// ErrInsufficientStock when qty exceeds what is on the shelf.
func (r *Repo) ReserveComponent(ctx context.Context, componentID string, qty int) error {
	return reserveComponent(r.DB.WithContext(ctx), componentID, qty)
}

// ReleaseComponent returns qty units to the shelf. A release that would push
// availability past total capacity fails with ErrInvalidQuantity instead of
// clamping, so accounting bugs surface rather than vanish.
func (r *Repo) ReleaseComponent(ctx context.Context, componentID string, qty int) error {
	return releaseComponent(r.DB.WithContext(ctx), componentID, qty)
}

// ResizeComponent adjusts total capacity and shifts availability by the same
// delta, leaving currently checked-out units untouched. Shrinking below the
// checked-out count fails with ErrInvalidQuantity.
func (r *Repo) ResizeComponent(ctx context.Context, componentID string, newTotal int) (*models.Component, error) {
	if newTotal < 0 {
		return nil, validationf("total quantity must not be negative")
	}
	res := r.DB.WithContext(ctx).Model(&models.Component{}).
		Where("id = ? AND available_quantity + (? - total_quantity) >= 0", componentID, newTotal).
		Updates(map[string]interface{}{
			"available_quantity": gorm.Expr("available_quantity + (? - total_quantity)", newTotal),
			"total_quantity":     newTotal,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindComponentByID(ctx, componentID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidQuantity
	}
	return r.FindComponentByID(ctx, componentID)
}

func reserveComponent(tx *gorm.DB, componentID string, qty int) error {
	if qty <= 0 {
		return validationf("quantity must be at least 1")
	}
	res := tx.Model(&models.Component{}).
		Where("id = ? AND available_quantity >= ?", componentID, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := tx.Model(&models.Component{}).Where("id = ?", componentID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return asNotFound(gorm.ErrRecordNotFound, "component "+componentID)
		}
		return ErrInsufficientStock
	}
	return nil
}

func releaseComponent(tx *gorm.DB, componentID string, qty int) error {
	if qty <= 0 {
		return validationf("quantity must be at least 1")
	}
	res := tx.Model(&models.Component{}).
		Where("id = ? AND available_quantity + ? <= total_quantity", componentID, qty).
		Update("available_quantity", gorm.Expr("available_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := tx.Model(&models.Component{}).Where("id = ?", componentID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return asNotFound(gorm.ErrRecordNotFound, "component "+componentID)
		}
		return ErrInvalidQuantity
	}
	return nil
}
