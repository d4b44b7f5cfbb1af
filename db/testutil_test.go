package db

import (
	"context"
	"testing"
	"time"

	"robolab/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestRepo spins up an in-memory sqlite database with the full schema.
// One connection only, so the :memory: database is shared across queries.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(gdb))
	return NewRepo(gdb)
}

func createStudent(t *testing.T, r *Repo, name, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         models.RoleStudent,
		RegisteredAt: time.Now().UTC(),
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func createAdmin(t *testing.T, r *Repo, name, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         models.RoleAdmin,
		RegisteredAt: time.Now().UTC(),
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func createComponent(t *testing.T, r *Repo, name string, total int) *models.Component {
	t.Helper()
	c := &models.Component{
		ID:            uuid.NewString(),
		Name:          name,
		Category:      "Test",
		TotalQuantity: total,
	}
	require.NoError(t, r.CreateComponent(context.Background(), c))
	return c
}

func mustComponent(t *testing.T, r *Repo, id string) *models.Component {
	t.Helper()
	c, err := r.FindComponentByID(context.Background(), id)
	require.NoError(t, err)
	return c
}
