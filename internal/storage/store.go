// Package storage implements the local file store backing portfolio and
// evidence uploads: whitelist validation, secure filename generation, the
// dated directory layout, and best-effort cleanup.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yukikurage/earn-your-wings-api/internal/constants"
	"github.com/yukikurage/earn-your-wings-api/internal/logger"
)

// Category determines where under the upload root a file lands and which
// record type owns it.
type Category string

const (
	CategoryPortfolio Category = "portfolio"
	CategoryEvidence  Category = "evidence"
	CategoryTemp      Category = "temp"
)

// ParseCategory maps a path segment onto a known category.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryPortfolio, CategoryEvidence, CategoryTemp:
		return Category(raw), true
	default:
		return "", false
	}
}

var (
	ErrMissingFilename     = errors.New("filename is required")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrMimeTypeNotAllowed  = errors.New("file type is not allowed")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
)

// Documents, spreadsheets, presentations, common images and video, plain
// text and RTF. Anything else is rejected up front.
var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".csv": true,
	".ppt": true, ".pptx": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".mp4": true, ".mov": true, ".avi": true, ".webm": true,
	".txt": true, ".rtf": true,
}

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/csv":                      true,
	"application/vnd.ms-powerpoint": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/webm":      true,
	"text/plain":      true,
	"application/rtf": true,
}

// FileMeta describes a stored file.
type FileMeta struct {
	Path             string   `json:"path"`
	OriginalFilename string   `json:"original_filename"`
	SecureFilename   string   `json:"secure_filename"`
	Size             int64    `json:"size"`
	MimeType         string   `json:"mime_type"`
	Category         Category `json:"category"`
}

// CategoryStats summarizes one category directory.
type CategoryStats struct {
	FileCount  int64 `json:"file_count"`
	TotalBytes int64 `json:"total_bytes"`
}

// Store persists uploads under a single root directory.
type Store struct {
	root    string
	maxSize int64
	log     *logger.Logger
}

func New(root string, log *logger.Logger) *Store {
	return &Store{
		root:    root,
		maxSize: constants.MaxUploadSize,
		log:     log.With("component", "storage"),
	}
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// Validate checks the filename extension and, when the client declared one,
// the MIME type. An absent MIME type is not itself a failure.
func (s *Store) Validate(filename, mimeType string) error {
	if strings.TrimSpace(filename) == "" {
		return ErrMissingFilename
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}
	if mimeType != "" {
		// Strip parameters like "; charset=utf-8" before the lookup.
		base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
		if !allowedMimeTypes[strings.ToLower(base)] {
			return fmt.Errorf("%w: %s", ErrMimeTypeNotAllowed, base)
		}
	}
	return nil
}

// SecureFilename produces "{id}_{sanitized stem}{ext}". The stem keeps only
// alphanumerics, spaces, hyphens and underscores and is truncated to 50
// characters; if nothing survives sanitization the id alone is used.
func SecureFilename(original, id string) string {
	ext := strings.ToLower(filepath.Ext(original))
	stem := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	sanitized := strings.TrimSpace(b.String())
	if len(sanitized) > constants.MaxSanitizedStemLength {
		sanitized = sanitized[:constants.MaxSanitizedStemLength]
	}

	if sanitized == "" {
		return id + ext
	}
	return id + "_" + sanitized + ext
}

// dir returns the directory for (category, user) at the given time,
// creating it if needed. Layout: root/{category}/{YYYY-MM}/{user_id}/
func (s *Store) dir(category Category, userID string, now time.Time) (string, error) {
	path := filepath.Join(s.root, string(category), now.Format("2006-01"), userID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	return path, nil
}

// Save validates and writes an upload, returning its metadata. The reader is
// buffered fully in memory to measure size against the ceiling; fine for the
// small evidence and portfolio files this service handles. The write is
// confirmed on disk before metadata is returned, so a caller that persists
// the owning record afterwards never references a partial file.
func (s *Store) Save(r io.Reader, originalFilename, mimeType string, category Category, userID, id string) (*FileMeta, error) {
	if err := s.Validate(originalFilename, mimeType); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	dir, err := s.dir(category, userID, time.Now())
	if err != nil {
		return nil, err
	}

	secureName := SecureFilename(originalFilename, id)
	path := filepath.Join(dir, secureName)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() != int64(len(data)) {
		s.Delete(path)
		return nil, fmt.Errorf("failed to confirm written file %s", secureName)
	}

	s.log.Info("file saved", "path", path, "size", len(data), "category", category)

	return &FileMeta{
		Path:             path,
		OriginalFilename: originalFilename,
		SecureFilename:   secureName,
		Size:             int64(len(data)),
		MimeType:         mimeType,
		Category:         category,
	}, nil
}

// Delete unlinks a stored file, best effort. A missing file or a failing
// unlink is logged and swallowed so soft-deletes of the owning record always
// complete.
func (s *Store) Delete(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("failed to delete file", "path", path, "error", err)
	}
}

// Exists reports whether a stored file is still present on disk.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Stats walks each category directory and sums file counts and sizes.
func (s *Store) Stats() (map[string]CategoryStats, error) {
	stats := make(map[string]CategoryStats)
	for _, category := range []Category{CategoryPortfolio, CategoryEvidence, CategoryTemp} {
		var cs CategoryStats
		root := filepath.Join(s.root, string(category))
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			cs.FileCount++
			cs.TotalBytes += info.Size()
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to scan %s storage: %w", category, err)
		}
		stats[string(category)] = cs
	}
	return stats, nil
}
