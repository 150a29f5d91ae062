package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	l := NewLocal(dir)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "a_1.png", "image/png", strings.NewReader("data"), 4))

	b, err := os.ReadFile(filepath.Join(dir, "a_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	// Names are unique, an existing file is never overwritten
	require.Error(t, l.Put(ctx, "a_1.png", "image/png", strings.NewReader("other"), 5))

	require.NoError(t, l.Delete(ctx, "a_1.png"))
	assert.ErrorIs(t, l.Delete(ctx, "a_1.png"), ErrNotExist)
}

func TestLocal_RejectsPaths(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	require.Error(t, l.Put(ctx, "../escape.png", "image/png", strings.NewReader("x"), 1))
	assert.ErrorIs(t, l.Delete(ctx, "../escape.png"), ErrNotExist)
	assert.ErrorIs(t, l.Delete(ctx, ""), ErrNotExist)
}
