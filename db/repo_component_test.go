package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveRelease(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	comp := createComponent(t, r, "Arduino", 10)

	require.NoError(t, r.ReserveComponent(ctx, comp.ID, 4))
	assert.Equal(t, 6, mustComponent(t, r, comp.ID).AvailableQuantity)

	// Over-reserve fails and mutates nothing.
	assert.ErrorIs(t, r.ReserveComponent(ctx, comp.ID, 7), ErrInsufficientStock)
	assert.Equal(t, 6, mustComponent(t, r, comp.ID).AvailableQuantity)

	require.NoError(t, r.ReleaseComponent(ctx, comp.ID, 4))
	assert.Equal(t, 10, mustComponent(t, r, comp.ID).AvailableQuantity)

	// Releasing past total capacity is an accounting bug, not a clamp.
	assert.ErrorIs(t, r.ReleaseComponent(ctx, comp.ID, 1), ErrInvalidQuantity)
	assert.Equal(t, 10, mustComponent(t, r, comp.ID).AvailableQuantity)

	// Non-positive quantities are rejected up front.
	assert.ErrorIs(t, r.ReserveComponent(ctx, comp.ID, 0), ErrValidation)
	assert.ErrorIs(t, r.ReleaseComponent(ctx, comp.ID, -1), ErrValidation)

	// Unknown component.
	assert.ErrorIs(t, r.ReserveComponent(ctx, "nope", 1), ErrNotFound)
	assert.ErrorIs(t, r.ReleaseComponent(ctx, "nope", 1), ErrNotFound)
}

func TestResizeShiftsAvailabilityByDelta(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	comp := createComponent(t, r, "Arduino", 10)

	// 3 units checked out.
	require.NoError(t, r.ReserveComponent(ctx, comp.ID, 3))

	// Grow: available moves with total, checked-out units untouched.
	grown, err := r.ResizeComponent(ctx, comp.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, grown.TotalQuantity)
	assert.Equal(t, 12, grown.AvailableQuantity)

	// Shrink down to exactly the checked-out count is fine.
	shrunk, err := r.ResizeComponent(ctx, comp.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, shrunk.TotalQuantity)
	assert.Equal(t, 0, shrunk.AvailableQuantity)

	// Below the checked-out count is not.
	_, err = r.ResizeComponent(ctx, comp.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = r.ResizeComponent(ctx, comp.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = r.ResizeComponent(ctx, "nope", 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateComponentStartsFull(t *testing.T) {
	r := newTestRepo(t)
	comp := createComponent(t, r, "ESP32", 12)
	assert.Equal(t, 12, comp.TotalQuantity)
	assert.Equal(t, 12, comp.AvailableQuantity)
}
