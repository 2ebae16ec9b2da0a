package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AssetStore persists publicly served files (uploaded images, documents,
// file-typed configuration values) under a base directory and resolves
// stored relative paths into absolute public URLs.
type AssetStore struct {
	baseDir       string
	publicBaseURL string
	siteURL       string
	storagePrefix string
}

// NewAssetStore ensures the base directory exists and returns a handle.
func NewAssetStore(baseDir, publicBaseURL, siteURL, storagePrefix string) (*AssetStore, error) {
	if baseDir == "" {
		baseDir = "./storage/app/public"
	}
	if storagePrefix == "" {
		storagePrefix = "/storage/"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset directory: %w", err)
	}
	return &AssetStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		siteURL:       strings.TrimRight(siteURL, "/"),
		storagePrefix: storagePrefix,
	}, nil
}

// Save writes the given bytes to the provided relative path under the base
// dir and returns the relative path for persistence.
func (s *AssetStore) Save(relPath string, data []byte) (string, error) {
	path := s.resolve(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare asset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset file: %w", err)
	}
	return relPath, nil
}

// SaveStream copies from reader into the target file path.
func (s *AssetStore) SaveStream(relPath string, r io.Reader) (string, error) {
	path := s.resolve(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare asset directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write asset stream: %w", err)
	}
	return relPath, nil
}

// Open returns a read-only handle for the stored file.
func (s *AssetStore) Open(relPath string) (*os.File, error) {
	file, err := os.Open(s.resolve(relPath))
	if err != nil {
		return nil, fmt.Errorf("open asset file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *AssetStore) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}
	if err := os.Remove(s.resolve(relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete asset file: %w", err)
	}
	return nil
}

// URL resolves a stored reference into a fully qualified public URL.
// Absolute URLs pass through, site-relative storage paths get the site
// origin prepended, and bare relative paths resolve against the public
// asset base.
func (s *AssetStore) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	if strings.HasPrefix(relPath, "http") {
		return relPath
	}
	if strings.HasPrefix(relPath, s.storagePrefix) {
		return s.siteURL + relPath
	}
	if strings.HasPrefix(relPath, "/") {
		return s.siteURL + relPath
	}
	return s.publicBaseURL + "/" + relPath
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *AssetStore) Path(relPath string) string {
	return s.resolve(relPath)
}

func (s *AssetStore) resolve(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(s.baseDir, relPath)
}
