package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileNameTooLong     = errors.New("file name is too long")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrNoFile              = errors.New("no file uploaded")
)

// Leaves room for the unique suffix appended to stored names
const maxFileNameSize = 200

type ImageOpts struct {
	MaxSize int64
	// Empty means any type is accepted
	AllowedTypes []string
}

// ImageValidator checks an uploaded file and returns it opened and rewound along
// with its sniffed MIME type. The caller must close the file.
func ImageValidator(fh *multipart.FileHeader, o ImageOpts) (multipart.File, string, error) {
	if fh == nil {
		return nil, "", ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return nil, "", ErrFileNameTooLong
	}

	if o.MaxSize > 0 && fh.Size > o.MaxSize {
		return nil, "", ErrFileTooLarge
	}

	// The header is easy to spoof so the content itself is checked
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file, %w", err)
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to detect file type, %w", err)
	}

	if len(o.AllowedTypes) > 0 && !slices.ContainsFunc(o.AllowedTypes, mime.Is) {
		f.Close()
		return nil, "", ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to rewind uploaded file, %w", err)
	}

	return f, mime.String(), nil
}
