package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestFile writes content to a file in a fresh temporary directory.
func setupTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filePath, content, 0644), "Failed to create test file")
	return filePath
}

func TestHashing(t *testing.T) {
	// Known SHA-256 hash for the string "hello world"
	const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	// Known MD5 digests for "hello" and for empty input
	const helloMD5 = "5d41402abc4b2a76b9719d911017c592"
	const emptyMD5 = "d41d8cd98f00b204e9800998ecf8427e"

	t.Run("GetHash for in-memory content", func(t *testing.T) {
		assert.Equal(t, helloWorldSHA256, GetHash([]byte("hello world")))
	})

	t.Run("GetFileMD5 for file with content", func(t *testing.T) {
		// Arrange
		filePath := setupTestFile(t, "hello.txt", []byte("hello"))

		// Act
		hash, size, err := GetFileMD5(filePath)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, helloMD5, hash)
		assert.Equal(t, int64(5), size)
	})

	t.Run("GetFileMD5 for empty file", func(t *testing.T) {
		filePath := setupTestFile(t, "empty.bin", []byte{})

		hash, size, err := GetFileMD5(filePath)

		require.NoError(t, err)
		assert.Equal(t, emptyMD5, hash)
		assert.Equal(t, int64(0), size)
	})

	t.Run("GetFileMD5 for non-existent file", func(t *testing.T) {
		_, _, err := GetFileMD5(filepath.Join(t.TempDir(), "this_does_not_exist.txt"))

		require.Error(t, err)
		assert.True(t, os.IsNotExist(err), "Expected a 'file not exist' error, but got: %v", err)
	})

	t.Run("StatFile builds entry stats with a MIME type", func(t *testing.T) {
		filePath := setupTestFile(t, "greeting.txt", []byte("hello"))

		stats, err := StatFile(filePath)

		require.NoError(t, err)
		assert.Equal(t, helloMD5, stats.ContentHash())
		assert.Equal(t, int64(5), stats.Size())
		assert.Contains(t, stats.MimeType(), "text/plain")
	})

	t.Run("StatFile leaves unknown MIME types empty", func(t *testing.T) {
		filePath := setupTestFile(t, "blob.unknownext", []byte("hello"))

		stats, err := StatFile(filePath)

		require.NoError(t, err)
		assert.Empty(t, stats.MimeType())
	})
}
