package drivers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalFSDriver stores documents on local disk with two-level directory
// fanout so a single directory never holds the whole corpus.
type LocalFSDriver struct {
	BaseDir   string
	PublicURL string
}

// NewLocalFSDriver creates a new LocalFSDriver rooted at baseDir. publicURL
// is the base URL used to generate download links (e.g. /api/documents).
func NewLocalFSDriver(baseDir, publicURL string) (*LocalFSDriver, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &LocalFSDriver{BaseDir: baseDir, PublicURL: publicURL}, nil
}

// fanoutPath spreads keys over two directory levels derived from the key's
// leading characters. Keys may carry a type prefix like "grn/"; the fanout
// applies to the final path element.
func (d *LocalFSDriver) fanoutPath(key string) string {
	dir, name := filepath.Split(key)
	if len(name) < 4 {
		return key
	}
	return filepath.Join(dir, name[0:2], name[2:4], name)
}

func (d *LocalFSDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	fullPath := filepath.Join(d.BaseDir, d.fanoutPath(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create fanout directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}

	// Content type sidecar
	metaPath := fullPath + ".meta"
	if err := os.WriteFile(metaPath, []byte(contentType), 0644); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	return nil
}

func (d *LocalFSDriver) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := filepath.Join(d.BaseDir, d.fanoutPath(key))
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, "", err
	}

	contentType := "application/octet-stream"
	if metaBytes, err := os.ReadFile(fullPath + ".meta"); err == nil {
		contentType = string(metaBytes)
	}

	return f, contentType, nil
}

func (d *LocalFSDriver) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(d.BaseDir, d.fanoutPath(key))
	os.Remove(fullPath + ".meta") // sidecar may not exist
	err := os.Remove(fullPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *LocalFSDriver) GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if d.PublicURL == "" {
		return key, nil
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(d.PublicURL, "/"), key), nil
}
