// Package media stores uploaded item images on disk.
package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("file is not an allowed image type")
	ErrTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrBadName         = errors.New("invalid file name")
)

const maxNameLength = 255

// Storage saves validated image files under a single directory with
// collision-free names.
type Storage struct {
	dir     string
	maxSize int64
	allowed map[string]struct{}
}

func New(dir string, maxSize int64, allowedTypes []string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}
	return &Storage{dir: dir, maxSize: maxSize, allowed: allowed}, nil
}

// Save validates and stores the upload, returning the generated file name.
// The content type is sniffed from the payload, not trusted from the client.
func (s *Storage) Save(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if _, ok := s.allowed[contentType]; !ok {
		return "", ErrUnsupportedType
	}

	name := uniqueName(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// Delete removes a stored file by its generated name.
func (s *Storage) Delete(name string) error {
	if name == "" || name != filepath.Base(name) {
		return ErrBadName
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrBadName
		}
		return err
	}
	return nil
}

// uniqueName suffixes the base name with a uuid before the extension and
// keeps the tail when the result would exceed the storage name limit.
func uniqueName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := fmt.Sprintf("%s_%s%s", stem, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	if len(name) > maxNameLength {
		name = name[len(name)-maxNameLength:]
	}
	return name
}
