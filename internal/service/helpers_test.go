package service

import (
	"bitwise74/account-api/config"
	"bitwise74/account-api/db"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

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

// fakeNotifier records the last code sent to every address
type fakeNotifier struct {
	mu   sync.Mutex
	sent map[string][]string
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: map[string][]string{}}
}

func (f *fakeNotifier) SendOTP(_ context.Context, email, otp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent[email] = append(f.sent[email], otp)
	return nil
}

func (f *fakeNotifier) last(t *testing.T, email string) string {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	codes := f.sent[email]
	require.NotEmpty(t, codes, "no otp sent to %s", email)

	return codes[len(codes)-1]
}

func (f *fakeNotifier) count(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent[email])
}

func ptr[T any](v T) *T { return &v }
