package service

import (
	"bitwise74/account-api/internal/storage"
	"bitwise74/account-api/internal/store"
	"bitwise74/account-api/pkg/validators"
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8080/uploads/"

// 1x1 transparent PNG
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func newImages(t *testing.T) (*Images, string) {
	t.Helper()

	dir := t.TempDir()
	svc := NewImages(
		store.NewImages(newTestDB(t)),
		storage.NewLocal(dir),
		testBaseURL,
		validators.ImageOpts{MaxSize: 1 << 20, AllowedTypes: []string{"image/png"}},
	)

	return svc, dir
}

func TestStoredName(t *testing.T) {
	re := regexp.MustCompile(`^[A-Za-z0-9_-]+_[0-9a-f-]{36}(\.[A-Za-z0-9]+)?$`)

	for in, prefix := range map[string]string{
		"photo.png":           "photo_",
		"archive.tar.GZ":      "archive_",
		"../../etc/passwd":    "passwd_",
		`C:\Users\me\a b.jpg`: "a-b_",
		".hidden":             "file_",
		"noext":               "noext_",
	} {
		got := StoredName(in)
		assert.True(t, strings.HasPrefix(got, prefix), "%s -> %s", in, got)
		assert.Regexp(t, re, got)
	}

	// The extension keeps the case it was uploaded with
	assert.True(t, strings.HasSuffix(StoredName("archive.tar.GZ"), ".GZ"))
	assert.True(t, strings.HasSuffix(StoredName("photo.PNG"), ".PNG"))
	assert.NotEqual(t, StoredName("a.png"), StoredName("a.png"))
}

func TestImages_UploadListDelete(t *testing.T) {
	svc, dir := newImages(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, fileHeader(t, "avatar.png", pngPixel))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(img.Path, testBaseURL))

	name := strings.TrimPrefix(img.Path, testBaseURL)
	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngPixel, stored)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, img.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, img.ID))
	assert.NoFileExists(t, filepath.Join(dir, name))

	requireKind(t, svc.Delete(ctx, img.ID), KindNotFound)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImages_UploadRejected(t *testing.T) {
	svc, _ := newImages(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, nil)
	requireKind(t, err, KindBadRequest)
	assert.Equal(t, "No file uploaded", err.Error())

	_, err = svc.Upload(ctx, fileHeader(t, "notes.png", []byte("plain text, not an image")))
	requireKind(t, err, KindBadRequest)

	_, err = svc.Upload(ctx, fileHeader(t, "big.png", append(pngPixel, make([]byte, 1<<20)...)))
	requireKind(t, err, KindBadRequest)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestImages_DeleteMissingFile(t *testing.T) {
	svc, dir := newImages(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, fileHeader(t, "avatar.png", pngPixel))
	require.NoError(t, err)

	name := strings.TrimPrefix(img.Path, testBaseURL)
	require.NoError(t, os.Remove(filepath.Join(dir, name)))

	err = svc.Delete(ctx, img.ID)
	requireKind(t, err, KindBadRequest)
	assert.Equal(t, "File does not exist: "+name, err.Error())
}
