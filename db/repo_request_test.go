package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"robolab/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitInput(studentID, componentID string, qty int, due time.Time) SubmitRequestInput {
	return SubmitRequestInput{
		StudentID:   studentID,
		RollNo:      "21RB042",
		Mobile:      "5550100",
		ComponentID: componentID,
		Quantity:    qty,
		DueDate:     due,
	}
}

func TestBorrowLifecycleEndToEnd(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "Arduino Uno R3", 10)

	// Submission does not touch inventory.
	req, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 3, now.AddDate(0, 0, 7)), now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, 10, mustComponent(t, r, comp.ID).AvailableQuantity)

	// Admins got an info notification.
	adminNotifs, err := r.ListUserNotifications(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, adminNotifs, 1)
	assert.Equal(t, models.NotifInfo, adminNotifs[0].Type)

	// Approval reserves stock and stamps metadata.
	approved, err := r.ApproveRequest(ctx, req.ID, admin.Name, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, admin.Name, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, 7, mustComponent(t, r, comp.ID).AvailableQuantity)

	studentNotifs, err := r.ListUserNotifications(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, studentNotifs, 1)
	assert.Equal(t, models.NotifSuccess, studentNotifs[0].Type)

	// Return releases exactly what was reserved.
	returned, err := r.ReturnRequest(ctx, req.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, 10, mustComponent(t, r, comp.ID).AvailableQuantity)

	// A second return must not double-release.
	_, err = r.ReturnRequest(ctx, req.ID, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 10, mustComponent(t, r, comp.ID).AvailableQuantity)
}

func TestApproveInsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "ESP32", 2)

	req, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 5, now.AddDate(0, 0, 3)), now)
	require.NoError(t, err)

	_, err = r.ApproveRequest(ctx, req.ID, admin.Name, now)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Request still pending, stock untouched, no approval notification.
	after, err := r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, after.Status)
	assert.Empty(t, after.ApprovedBy)
	assert.Equal(t, 2, mustComponent(t, r, comp.ID).AvailableQuantity)

	notifs, err := r.ListUserNotifications(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, notifs)
}

func TestApprovalTimeRevalidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := createAdmin(t, r, "Admin", "admin@lab.test")
	a := createStudent(t, r, "First", "first@lab.test")
	b := createStudent(t, r, "Second", "second@lab.test")
	comp := createComponent(t, r, "Servo SG90", 5)

	// Two overlapping requests for the same limited stock; approval order
	// decides who gets it.
	reqA, err := r.SubmitRequest(ctx, submitInput(a.ID, comp.ID, 4, now.AddDate(0, 0, 5)), now)
	require.NoError(t, err)
	reqB, err := r.SubmitRequest(ctx, submitInput(b.ID, comp.ID, 4, now.AddDate(0, 0, 5)), now)
	require.NoError(t, err)

	_, err = r.ApproveRequest(ctx, reqA.ID, admin.Name, now)
	require.NoError(t, err)

	_, err = r.ApproveRequest(ctx, reqB.ID, admin.Name, now)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, mustComponent(t, r, comp.ID).AvailableQuantity)
}

func TestRejectRequiresReason(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "HC-SR04", 5)

	req, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 1, now.AddDate(0, 0, 2)), now)
	require.NoError(t, err)

	_, err = r.RejectRequest(ctx, req.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	after, err := r.FindRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, after.Status)

	// With a reason the rejection lands, stores notes and notifies with the
	// reason included.
	rejected, err := r.RejectRequest(ctx, req.ID, "Out of project scope")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "Out of project scope", rejected.Notes)
	assert.Equal(t, 5, mustComponent(t, r, comp.ID).AvailableQuantity)

	notifs, err := r.ListUserNotifications(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotifError, notifs[0].Type)
	assert.Contains(t, notifs[0].Message, "Out of project scope")
}

func TestInvalidTransitions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "L298N", 5)

	req, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 2, now.AddDate(0, 0, 2)), now)
	require.NoError(t, err)

	// Return before approval.
	_, err = r.ReturnRequest(ctx, req.ID, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = r.ApproveRequest(ctx, req.ID, admin.Name, now)
	require.NoError(t, err)

	// Approve and reject on a non-pending request.
	_, err = r.ApproveRequest(ctx, req.ID, admin.Name, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = r.RejectRequest(ctx, req.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = r.ReturnRequest(ctx, req.ID, now)
	require.NoError(t, err)

	// Approve on a returned request.
	_, err = r.ApproveRequest(ctx, req.ID, admin.Name, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Ledger balanced through all the failed transitions.
	assert.Equal(t, 5, mustComponent(t, r, comp.ID).AvailableQuantity)
}

func TestSubmitValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "Arduino", 5)

	_, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 0, now.AddDate(0, 0, 1)), now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 1, now.AddDate(0, 0, -1)), now)
	assert.ErrorIs(t, err, ErrValidation)

	// Due today is allowed.
	_, err = r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 1, now), now)
	assert.NoError(t, err)

	_, err = r.SubmitRequest(ctx, submitInput(student.ID, "no-such-component", 1, now.AddDate(0, 0, 1)), now)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.SubmitRequest(ctx, submitInput("no-such-user", comp.ID, 1, now.AddDate(0, 0, 1)), now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationAccountingInvariant(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "Arduino", 20)

	// A mixed history: two approved, one returned, one rejected, one pending.
	mk := func(qty int) *models.BorrowRequest {
		req, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, qty, now.AddDate(0, 0, 7)), now)
		require.NoError(t, err)
		return req
	}
	r1, r2, r3, r4 := mk(3), mk(4), mk(2), mk(5)
	mk(1) // stays pending

	for _, req := range []*models.BorrowRequest{r1, r2, r3} {
		_, err := r.ApproveRequest(ctx, req.ID, admin.Name, now)
		require.NoError(t, err)
	}
	_, err := r.ReturnRequest(ctx, r3.ID, now)
	require.NoError(t, err)
	_, err = r.RejectRequest(ctx, r4.ID, "denied")
	require.NoError(t, err)

	// sum(quantity of approved) == total - available
	approved, err := r.ListRequests(ctx, RequestFilter{Status: models.StatusApproved})
	require.NoError(t, err)
	sum := 0
	for _, req := range approved {
		sum += req.Quantity
	}
	c := mustComponent(t, r, comp.ID)
	assert.Equal(t, c.TotalQuantity-c.AvailableQuantity, sum)
	assert.GreaterOrEqual(t, c.AvailableQuantity, 0)
	assert.LessOrEqual(t, c.AvailableQuantity, c.TotalQuantity)
}

func TestListRequestsFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	createAdmin(t, r, "Admin", "admin@lab.test")
	a := createStudent(t, r, "First", "first@lab.test")
	b := createStudent(t, r, "Second", "second@lab.test")
	comp := createComponent(t, r, "Arduino", 20)

	_, err := r.SubmitRequest(ctx, submitInput(a.ID, comp.ID, 1, now.AddDate(0, 0, 7)), now)
	require.NoError(t, err)
	_, err = r.SubmitRequest(ctx, submitInput(b.ID, comp.ID, 2, now.AddDate(0, 0, 7)), now)
	require.NoError(t, err)

	mine, err := r.ListRequests(ctx, RequestFilter{StudentID: a.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].StudentID)

	pending, err := r.ListRequests(ctx, RequestFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = r.ListRequests(ctx, RequestFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConcurrentApproveSingleWinner(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "ESP32 DevKit", 5)

	req, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 5, now.AddDate(0, 0, 7)), now)
	require.NoError(t, err)

	// Two approvers race on the same pending request. The status guard on
	// the UPDATE lets exactly one through; the loser sees a transition error
	// and stock is reserved exactly once.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.ApproveRequest(ctx, req.ID, "Admin", now)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, ErrInvalidTransition)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 0, mustComponent(t, r, comp.ID).AvailableQuantity)
}
