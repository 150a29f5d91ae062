package store

import (
	"bitwise74/account-api/config"
	"bitwise74/account-api/db"
	"bitwise74/account-api/internal/model"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	d, err := db.New(config.DatabaseConfig{Driver: "sqlite", URL: path})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return d
}

func ptr[T any](v T) *T { return &v }

func TestUsers_CreateAndFetch(t *testing.T) {
	s := NewUsers(newTestDB(t))
	ctx := context.Background()

	u := &model.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, s.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, model.RoleUser, u.Role)

	byEmail, err := s.ByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)
	assert.False(t, byID.CreatedAt.IsZero())
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := NewUsers(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &model.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}))

	err := s.Create(ctx, &model.User{Name: "Other", Email: "alice@example.com", Password: "hash2"})
	require.ErrorIs(t, err, ErrDuplicate)

	u, err := s.ByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
}

func TestUsers_OptionalUniqueFields(t *testing.T) {
	s := NewUsers(newTestDB(t))
	ctx := context.Background()

	// Two users without a username must not clash on the unique index
	require.NoError(t, s.Create(ctx, &model.User{Name: "A", Email: "a@example.com", Password: "h"}))
	require.NoError(t, s.Create(ctx, &model.User{Name: "B", Email: "b@example.com", Password: "h"}))

	require.NoError(t, s.Create(ctx, &model.User{Name: "C", Email: "c@example.com", Password: "h", Username: ptr("carol")}))
	err := s.Create(ctx, &model.User{Name: "D", Email: "d@example.com", Password: "h", Username: ptr("carol")})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUsers_NotFound(t *testing.T) {
	s := NewUsers(newTestDB(t))
	ctx := context.Background()

	_, err := s.ByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.ByID(ctx, 42)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.Update(ctx, 42, map[string]any{"name": "x"}), ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, 42), ErrNotFound)
}

func TestUsers_UpdateAndDelete(t *testing.T) {
	s := NewUsers(newTestDB(t))
	ctx := context.Background()

	a := &model.User{Name: "A", Email: "a@example.com", Password: "h"}
	b := &model.User{Name: "B", Email: "b@example.com", Password: "h"}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	require.NoError(t, s.Update(ctx, a.ID, map[string]any{"name": "Anna"}))
	got, err := s.ByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)

	err = s.Update(ctx, a.ID, map[string]any{"email": "b@example.com"})
	require.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, s.Delete(ctx, a.ID))
	_, err = s.ByID(ctx, a.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// The email is free again once the record is gone
	require.NoError(t, s.Create(ctx, &model.User{Name: "A2", Email: "a@example.com", Password: "h"}))
}
