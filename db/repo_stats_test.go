package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemStats(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := createAdmin(t, r, "Admin", "admin@lab.test")
	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	comp := createComponent(t, r, "Arduino", 10)
	createComponent(t, r, "ESP32", 5)

	require.NoError(t, r.TouchUserLogin(ctx, student.ID, now))
	require.NoError(t, r.TouchUserLogin(ctx, student.ID, now))
	u, err := r.FindUserByID(ctx, student.ID)
	require.NoError(t, err)
	_, err = r.CreateLoginSession(ctx, u, "127.0.0.1", "test", now)
	require.NoError(t, err)

	// One overdue approved request, one pending.
	overdueReq, err := r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 2, now), now)
	require.NoError(t, err)
	_, err = r.ApproveRequest(ctx, overdueReq.ID, admin.Name, now)
	require.NoError(t, err)
	_, err = r.SubmitRequest(ctx, submitInput(student.ID, comp.ID, 1, now.AddDate(0, 0, 7)), now)
	require.NoError(t, err)

	later := now.AddDate(0, 0, 1) // the approved request's due date has passed
	stats, err := r.SystemStats(ctx, later)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.TotalLogins)
	assert.Equal(t, int64(1), stats.OnlineUsers)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.PendingRequests)
	assert.Equal(t, int64(2), stats.TotalComponents)
	assert.Equal(t, int64(1), stats.OverdueItems)

	// Idempotent: same inputs, same snapshot.
	again, err := r.SystemStats(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, stats, again)

	// A returned request stops being overdue no matter the date.
	_, err = r.ReturnRequest(ctx, overdueReq.ID, later)
	require.NoError(t, err)
	after, err := r.SystemStats(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.OverdueItems)
}

func TestEndUserSessions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	student := createStudent(t, r, "Jane Doe", "jane@lab.test")
	require.NoError(t, r.TouchUserLogin(ctx, student.ID, now))
	u, err := r.FindUserByID(ctx, student.ID)
	require.NoError(t, err)
	require.True(t, u.IsActive)

	_, err = r.CreateLoginSession(ctx, u, "127.0.0.1", "test", now)
	require.NoError(t, err)

	logout := now.Add(90 * time.Second)
	require.NoError(t, r.EndUserSessions(ctx, student.ID, logout))

	sessions, err := r.ListLoginSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.False(t, s.IsActive)
	require.NotNil(t, s.LogoutTime)
	require.NotNil(t, s.SessionDuration)
	assert.Equal(t, int64(90), *s.SessionDuration)

	u, err = r.FindUserByID(ctx, student.ID)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
}
