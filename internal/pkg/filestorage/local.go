package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ResumeExtensions are the file types accepted as resumes
var ResumeExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt"}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // URL prefix under which basePath is served
	logger   zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance.
// baseURL is optional; without it returned URLs are relative ("uploads/...").
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}, nil
}

// Save implements FileStorage
func (ls *LocalStorage) Save(ctx context.Context, filename string, r io.Reader, subPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	subPath = filepath.ToSlash(filepath.Clean("/" + subPath))[1:]

	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		ls.logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	rel := uniqueFilename
	if subPath != "" {
		rel = subPath + "/" + uniqueFilename
	}

	accessiblePath := "uploads/" + rel
	if ls.baseURL != "" {
		accessiblePath = ls.baseURL + "/" + rel
	}

	ls.logger.Info().Str("filename", filename).Str("savedAs", uniqueFilename).Str("url", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

// DeleteFile implements FileStorage
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		ls.logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		ls.logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath maps a URL returned by Save back to its filesystem path.
// It returns "" for URLs outside this storage.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	var rel string
	switch {
	case ls.baseURL != "" && strings.HasPrefix(fileURL, ls.baseURL+"/"):
		rel = strings.TrimPrefix(fileURL, ls.baseURL+"/")
	case strings.HasPrefix(fileURL, "uploads/"):
		rel = strings.TrimPrefix(fileURL, "uploads/")
	default:
		return ""
	}

	rel = filepath.Clean("/" + rel)[1:]
	if rel == "" || rel == "." {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}

// AllowedExtension reports whether filename ends in one of exts, case-insensitively
func AllowedExtension(filename string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
