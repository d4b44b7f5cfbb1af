package db

import (
	"context"
	"fmt"
	"time"

	"robolab/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Borrow request lifecycle.
//
// Each transition runs in one transaction: a CAS on (id, expected status)
// plus the ledger move plus the notification insert. If any step fails the
// whole transition rolls back, so a request is never half-approved and stock
// is never half-released. Two concurrent approvals of the same request race
// on the CAS; exactly one wins, the other gets ErrInvalidTransition.

type SubmitRequestInput struct {
	StudentID   string
	RollNo      string
	Mobile      string
	ComponentID string
	Quantity    int
	DueDate     time.Time
}

// SubmitRequest records a pending request and notifies every admin. Stock is
// deliberately not reserved here: "requested" is not "committed", the admin
// arbitrates when several students want the same limited stock.
func (r *Repo) SubmitRequest(ctx context.Context, in SubmitRequestInput, now time.Time) (*models.BorrowRequest, error) {
	if in.Quantity < 1 {
		return nil, validationf("quantity must be at least 1")
	}
	if dayStart(in.DueDate).Before(dayStart(now)) {
		return nil, validationf("due date must not be in the past")
	}

	var req *models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.User
		if err := tx.First(&student, "id = ?", in.StudentID).Error; err != nil {
			return asNotFound(err, "user "+in.StudentID)
		}
		var comp models.Component
		if err := tx.First(&comp, "id = ?", in.ComponentID).Error; err != nil {
			return asNotFound(err, "component "+in.ComponentID)
		}

		req = &models.BorrowRequest{
			ID:            uuid.NewString(),
			StudentID:     student.ID,
			StudentName:   student.Name,
			RollNo:        in.RollNo,
			Mobile:        in.Mobile,
			ComponentID:   comp.ID,
			ComponentName: comp.Name,
			Quantity:      in.Quantity,
			RequestDate:   now,
			DueDate:       in.DueDate,
			Status:        models.StatusPending,
		}
		if err := tx.Create(req).Error; err != nil {
			return err
		}

		var admins []models.User
		if err := tx.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
			return err
		}
		for _, admin := range admins {
			n := &models.Notification{
				ID:      uuid.NewString(),
				UserID:  admin.ID,
				Title:   "New Component Request",
				Message: fmt.Sprintf("%s has requested %d x %s. Review and approve in the admin panel.", student.Name, in.Quantity, comp.Name),
				Type:    models.NotifInfo,
			}
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// ApproveRequest moves pending → approved, reserving stock at approval time.
// Availability is re-checked here because stock may have moved since the
// request was submitted; a short shelf leaves the request pending and
// notifies no one.
func (r *Repo) ApproveRequest(ctx context.Context, requestID, approverName string, now time.Time) (*models.BorrowRequest, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(models.StatusApproved) {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", requestID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      models.StatusApproved,
				"approved_by": approverName,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := reserveComponent(tx, req.ComponentID, req.Quantity); err != nil {
			return err
		}

		n := &models.Notification{
			ID:      uuid.NewString(),
			UserID:  req.StudentID,
			Title:   "Request Approved",
			Message: fmt.Sprintf("Your request for %s x%d has been approved. Come and collect it at the lab.", req.ComponentName, req.Quantity),
			Type:    models.NotifSuccess,
		}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindRequestByID(ctx, requestID)
}

// RejectRequest moves pending → rejected. The reason is mandatory and lands
// both in the request notes and in the student's notification. No inventory
// effect: pending requests never held stock.
func (r *Repo) RejectRequest(ctx context.Context, requestID, reason string) (*models.BorrowRequest, error) {
	if reason == "" {
		return nil, validationf("rejection reason is required")
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(models.StatusRejected) {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", requestID, models.StatusPending).
			Updates(map[string]interface{}{
				"status": models.StatusRejected,
				"notes":  reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		n := &models.Notification{
			ID:      uuid.NewString(),
			UserID:  req.StudentID,
			Title:   "Request Update",
			Message: fmt.Sprintf("Your request for %s has been reviewed. %s", req.ComponentName, reason),
			Type:    models.NotifError,
		}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindRequestByID(ctx, requestID)
}

// ReturnRequest moves approved → returned and releases the reserved stock.
// The CAS makes a second return fail with ErrInvalidTransition instead of
// double-releasing; that guard is what keeps the ledger honest.
func (r *Repo) ReturnRequest(ctx context.Context, requestID string, now time.Time) (*models.BorrowRequest, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(models.StatusReturned) {
			return ErrInvalidTransition
		}

		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", requestID, models.StatusApproved).
			Updates(map[string]interface{}{
				"status":      models.StatusReturned,
				"returned_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := releaseComponent(tx, req.ComponentID, req.Quantity); err != nil {
			return err
		}

		n := &models.Notification{
			ID:      uuid.NewString(),
			UserID:  req.StudentID,
			Title:   "Item Returned Successfully",
			Message: fmt.Sprintf("Your return of %s x%d has been confirmed. Thank you!", req.ComponentName, req.Quantity),
			Type:    models.NotifSuccess,
		}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindRequestByID(ctx, requestID)
}

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, asNotFound(err, "request "+id)
	}
	return &req, nil
}

type RequestFilter struct {
	StudentID   string
	ComponentID string
	Status      models.RequestStatus
}

func (r *Repo) ListRequests(ctx context.Context, f RequestFilter) ([]models.BorrowRequest, error) {
	q := r.DB.WithContext(ctx).Model(&models.BorrowRequest{}).Order("request_date DESC")
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.ComponentID != "" {
		q = q.Where("component_id = ?", f.ComponentID)
	}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, validationf("unknown status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	var reqs []models.BorrowRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func loadRequest(tx *gorm.DB, id string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	if err := tx.First(&req, "id = ?", id).Error; err != nil {
		return nil, asNotFound(err, "request "+id)
	}
	return &req, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
