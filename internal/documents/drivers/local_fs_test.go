package drivers

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFSDriverRoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalFSDriver(tempDir, "/api/documents")
	require.NoError(t, err)

	ctx := context.Background()
	key := "grn/abcdef123456.pdf"
	content := []byte("grn scan")

	require.NoError(t, driver.Save(ctx, key, bytes.NewReader(content), "application/pdf"))

	// The fanout keeps the type prefix and spreads the file name.
	fullPath := filepath.Join(tempDir, "grn", "ab", "cd", "abcdef123456.pdf")
	_, err = os.Stat(fullPath)
	assert.NoError(t, err, "file should exist at fanout path")

	reader, contentType, err := driver.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, "application/pdf", contentType)

	url, err := driver.GenerateURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "/api/documents/grn/abcdef123456.pdf", url)

	require.NoError(t, driver.Delete(ctx, key))
	_, err = os.Stat(fullPath)
	assert.True(t, os.IsNotExist(err), "file should be gone after delete")
}

func TestLocalFSDriverDeleteMissingIsNoop(t *testing.T) {
	driver, err := NewLocalFSDriver(t.TempDir(), "")
	require.NoError(t, err)

	assert.NoError(t, driver.Delete(context.Background(), "grn/doesnotexist.pdf"))
}

func TestLocalFSDriverShortKey(t *testing.T) {
	driver, err := NewLocalFSDriver(t.TempDir(), "")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, driver.Save(ctx, "ab", bytes.NewReader([]byte("x")), "text/plain"))

	reader, _, err := driver.Get(ctx, "ab")
	require.NoError(t, err)
	reader.Close()
}
