package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorTaxonomy(t *testing.T) {
	err := validationf("quantity must be at least %d", 1)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "quantity must be at least 1")

	err = asNotFound(gorm.ErrRecordNotFound, "component abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "component abc")

	// Driver failures are wrapped, never surfaced verbatim as ErrNotFound.
	err = asNotFound(errors.New("connection reset"), "user xyz")
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRepoErrorsCarrySentinels(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.FindUserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.FindComponentByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.FindRequestByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindOrCreateStudentWelcomeNotification(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u, err := r.FindOrCreateStudent(ctx, "jane@lab.test", "Jane Doe", uuid.NewString(), now)
	require.NoError(t, err)

	ns, err := r.ListUserNotifications(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "Welcome to the Lab", ns[0].Title)

	// A second login finds the existing account and does not greet again.
	again, err := r.FindOrCreateStudent(ctx, "jane@lab.test", "Jane Doe", uuid.NewString(), now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	ns, err = r.ListUserNotifications(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}
