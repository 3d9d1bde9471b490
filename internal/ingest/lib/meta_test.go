package lib

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapIDCounter(t *testing.T) {
	t.Run("should start at 1 without a counter file", func(t *testing.T) {
		id, err := GetNextSnapID(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("should hand out increasing IDs", func(t *testing.T) {
		baseDir := t.TempDir()

		first, err := ReserveSnapID(baseDir)
		require.NoError(t, err)
		second, err := ReserveSnapID(baseDir)
		require.NoError(t, err)
		next, err := GetNextSnapID(baseDir)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first)
		assert.Equal(t, int64(2), second)
		assert.Equal(t, int64(3), next)
	})

	t.Run("should treat an empty counter file as a fresh start", func(t *testing.T) {
		baseDir := t.TempDir()
		_, err := EnsureDirs(baseDir)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(getCounterPath(baseDir), []byte("  \n"), 0644))

		id, err := ReserveSnapID(baseDir)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("should fail on a corrupt counter file", func(t *testing.T) {
		baseDir := t.TempDir()
		_, err := EnsureDirs(baseDir)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(getCounterPath(baseDir), []byte("not-a-number"), 0644))

		_, err = ReserveSnapID(baseDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt counter file")
	})

	t.Run("should never hand out the same ID twice concurrently", func(t *testing.T) {
		baseDir := t.TempDir()
		const n = 50

		var wg sync.WaitGroup
		ids := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := ReserveSnapID(baseDir)
				assert.NoError(t, err)
				ids <- id
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id], "ID %d handed out twice", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}
