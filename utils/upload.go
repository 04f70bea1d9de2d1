package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	// MaxUploadSize caps a single artwork image.
	MaxUploadSize = 20 * 1024 * 1024
	thumbDir      = "thumbs"
	thumbEdge     = 300
)

// ErrUploadTooLarge is returned when the uploaded file exceeds MaxUploadSize.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SecureFilename reduces a client supplied name to a safe base name.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeName.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}

// SaveUpload stores the multipart file under dir with a uuid prefix and returns the stored name.
func SaveUpload(header *multipart.FileHeader, dir string) (string, error) {
	if header.Size > MaxUploadSize {
		return "", ErrUploadTooLarge
	}
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	base := SecureFilename(header.Filename)
	if base == "" {
		base = "image"
	}
	stored := uuid.NewString()[:8] + "_" + base
	dstPath := filepath.Join(dir, stored)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, &io.LimitedReader{R: src, N: MaxUploadSize + 1})
	if err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > MaxUploadSize {
		_ = os.Remove(dstPath)
		return "", ErrUploadTooLarge
	}
	return stored, nil
}

// MakeThumbnail writes a JPEG thumbnail of dir/name into dir/thumbs and returns its reference
// relative to dir.
func MakeThumbnail(dir, name string) (string, error) {
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	thumbnail := resize.Thumbnail(thumbEdge, thumbEdge, img, resize.Lanczos3)

	if err := os.MkdirAll(filepath.Join(dir, thumbDir), 0o755); err != nil {
		return "", err
	}
	ref := thumbDir + "/" + strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	out, err := os.Create(filepath.Join(dir, filepath.FromSlash(ref)))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumbnail, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return ref, nil
}
