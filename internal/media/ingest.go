package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/receptive/reviews-backend/internal/httperr"
	"github.com/receptive/reviews-backend/internal/storage"

	_ "image/gif"
)

const (
	// MaxFiles is the hard ceiling on images per batch.
	MaxFiles = 5
	// MaxFileSize is the per-file size limit.
	MaxFileSize = 10 << 20 // 10MB
)

var allowedTypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
}

// ValidateBatch checks file count, per-file size and image type for a
// whole upload batch. Any violation rejects the batch before a single
// byte reaches the blob store. maxFiles caps the batch below MaxFiles
// for endpoints with a tighter limit.
func ValidateBatch(files []*multipart.FileHeader, maxFiles int) error {
	if maxFiles <= 0 || maxFiles > MaxFiles {
		maxFiles = MaxFiles
	}
	if len(files) > maxFiles {
		return httperr.Validation("A maximum of %d images are allowed", maxFiles)
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return httperr.Validation("Image %s exceeds the 10MB size limit", fh.Filename)
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
		mime := strings.TrimPrefix(strings.ToLower(fh.Header.Get("Content-Type")), "image/")
		if !allowedTypes[ext] || !allowedTypes[mime] {
			return httperr.Validation("Only images (jpeg, jpg, png, gif) are allowed")
		}
	}
	return nil
}

// normalized holds one re-encoded upload ready for the blob store.
type normalized struct {
	data        []byte
	contentType string
	ext         string
}

// normalize re-encodes an upload for consistent delivery: PNG input stays
// PNG, everything else becomes baseline JPEG at default quality.
func normalize(r io.Reader) (normalized, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return normalized{}, httperr.Validation("File is not a valid image")
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return normalized{}, fmt.Errorf("failed to encode png: %w", err)
		}
		return normalized{data: buf.Bytes(), contentType: "image/png", ext: "png"}, nil
	}

	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return normalized{}, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return normalized{data: buf.Bytes(), contentType: "image/jpeg", ext: "jpg"}, nil
}

// Ingest validates a batch of uploaded images, normalizes each one and
// stores it, returning the stable public URLs in input order. An empty
// batch is not an error and yields an empty list.
func Ingest(ctx context.Context, files []*multipart.FileHeader, maxFiles int) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if err := ValidateBatch(files, maxFiles); err != nil {
		return nil, err
	}

	urls := make([]string, len(files))
	errs := make([]error, len(files))
	done := make(chan int, len(files))

	for i, fh := range files {
		go func(idx int, fh *multipart.FileHeader) {
			defer func() { done <- idx }()
			urls[idx], errs[idx] = ingestOne(ctx, fh)
		}(i, fh)
	}
	for range files {
		<-done
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

func ingestOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	norm, err := normalize(file)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("reviews/%s.%s", uuid.NewString(), norm.ext)
	return storage.PutImage(ctx, objectName, bytes.NewReader(norm.data), int64(len(norm.data)), norm.contentType)
}
