package service

import (
	"bitwise74/account-api/internal/model"
	"bitwise74/account-api/internal/storage"
	"bitwise74/account-api/internal/store"
	"bitwise74/account-api/pkg/validators"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Images keeps uploaded files in a storage backend and their public URLs in
// the database
type Images struct {
	images  *store.Images
	storage storage.Storage
	baseURL string
	opts    validators.ImageOpts
}

func NewImages(i *store.Images, s storage.Storage, baseURL string, o validators.ImageOpts) *Images {
	return &Images{
		images:  i,
		storage: s,
		baseURL: baseURL,
		opts:    o,
	}
}

func (s *Images) List(ctx context.Context) ([]model.Image, error) {
	images, err := s.images.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images, %w", err)
	}

	return images, nil
}

// StoredName turns an uploaded file name into a unique storage name of the
// form <stem>_<uuid><ext>, where stem is everything before the first dot
func StoredName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := filepath.Ext(base)

	stem, _, _ := strings.Cut(base, ".")
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, stem)

	if stem == "" {
		stem = "file"
	}

	return stem + "_" + uuid.NewString() + ext
}

func (s *Images) Upload(ctx context.Context, fh *multipart.FileHeader) (*model.Image, error) {
	f, mime, err := validators.ImageValidator(fh, s.opts)
	if err != nil {
		switch {
		case errors.Is(err, validators.ErrNoFile):
			return nil, newErr(KindBadRequest, "No file uploaded")
		case errors.Is(err, validators.ErrFileTooLarge):
			return nil, newErr(KindBadRequest, "File is too large")
		case errors.Is(err, validators.ErrFileNameTooLong):
			return nil, newErr(KindBadRequest, "File name is too long")
		case errors.Is(err, validators.ErrFileTypeUnsupported):
			return nil, &Error{Kind: KindBadRequest, Msg: "Unsupported file type", Err: err}
		}

		return nil, fmt.Errorf("failed to read uploaded file, %w", err)
	}
	defer f.Close()

	name := StoredName(fh.Filename)

	if err := s.storage.Put(ctx, name, mime, f, fh.Size); err != nil {
		return nil, fmt.Errorf("failed to store file, %w", err)
	}

	img := &model.Image{Path: s.baseURL + name}

	if err := s.images.Create(ctx, img); err != nil {
		if err := s.storage.Delete(context.Background(), name); err != nil {
			zap.L().Error("Failed to clean up stored file after failed insert", zap.String("name", name), zap.Error(err))
		}

		return nil, fmt.Errorf("failed to save image record, %w", err)
	}

	return img, nil
}

// Delete removes the stored file and then its record. A record whose file is
// already gone is kept and reported as a bad request.
func (s *Images) Delete(ctx context.Context, id uint) error {
	img, err := s.images.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newErr(KindNotFound, "File not found")
		}

		return fmt.Errorf("failed to look up image, %w", err)
	}

	name, ok := strings.CutPrefix(img.Path, s.baseURL)
	if !ok || name == "" {
		return newErr(KindBadRequest, "File does not exist: %s", img.Path)
	}

	if err := s.storage.Delete(ctx, name); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return newErr(KindBadRequest, "File does not exist: %s", name)
		}

		return fmt.Errorf("failed to delete stored file, %w", err)
	}

	if err := s.images.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newErr(KindNotFound, "File not found")
		}

		return fmt.Errorf("failed to delete image record, %w", err)
	}

	return nil
}
