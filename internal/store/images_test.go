package store

import (
	"bitwise74/account-api/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImages_Lifecycle(t *testing.T) {
	s := NewImages(newTestDB(t))
	ctx := context.Background()

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	img := &model.Image{Path: "http://localhost/uploads/cat_1.png"}
	require.NoError(t, s.Create(ctx, img))
	require.NotZero(t, img.ID)

	got, err := s.ByID(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Path, got.Path)

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, img.ID))
	require.ErrorIs(t, s.Delete(ctx, img.ID), ErrNotFound)

	_, err = s.ByID(ctx, img.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
