package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var metaMutex = &sync.Mutex{}

func getCounterPath(baseDir string) string {
	return filepath.Join(GetMetaDir(baseDir), "counter")
}

// readNextSnapID returns the ID the next saved snap will get. Callers must
// hold metaMutex.
func readNextSnapID(baseDir string) (int64, error) {
	content, err := os.ReadFile(getCounterPath(baseDir))
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, err
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return 1, nil
	}

	id, err := strconv.ParseInt(trimmedContent, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter file: %w", err)
	}
	return id, nil
}

// GetNextSnapID reads the next snap ID without consuming it.
func GetNextSnapID(baseDir string) (int64, error) {
	metaMutex.Lock()
	defer metaMutex.Unlock()
	return readNextSnapID(baseDir)
}

// ReserveSnapID returns the next snap ID and advances the persistent counter,
// so IDs are never handed out twice even after snaps are pruned.
func ReserveSnapID(baseDir string) (int64, error) {
	metaMutex.Lock()
	defer metaMutex.Unlock()

	if err := os.MkdirAll(GetMetaDir(baseDir), 0755); err != nil {
		return 0, err
	}

	id, err := readNextSnapID(baseDir)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(getCounterPath(baseDir), []byte(strconv.FormatInt(id+1, 10)), 0644); err != nil {
		return 0, err
	}
	return id, nil
}
