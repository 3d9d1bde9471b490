package lib

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gingerrexayers/ingest-watcher/internal/ingest/types"
)

// GetHash calculates the SHA-256 hash of an in-memory byte slice and returns
// it as a lowercase hex-encoded string. It names persisted snap manifests.
func GetHash(content []byte) string {
	hashBytes := sha256.Sum256(content)
	return hex.EncodeToString(hashBytes[:])
}

// GetFileMD5 calculates the MD5 digest of a file by streaming it from disk
// and returns it hex-encoded. MD5 is the content hash downstream ingestion
// keys files by.
func GetFileMD5(filePath string) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	hasher := md5.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		return "", 0, err
	}

	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}

// StatFile hashes the file at filePath and returns its EntryStats. The MIME
// type is derived from the extension and is empty when unknown.
func StatFile(filePath string) (types.EntryStats, error) {
	hash, size, err := GetFileMD5(filePath)
	if err != nil {
		return types.EntryStats{}, err
	}
	return types.NewEntryStats(hash, size, mime.TypeByExtension(filepath.Ext(filePath)))
}
