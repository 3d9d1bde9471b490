package lib

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/denormal/go-gitignore"
)

// --- Constants ---

// DataDirName is the directory, relative to a watched root, that holds saved
// snaps and their metadata.
const DataDirName = ".ingestwatcher"

// SnapsDirName is the name of the subdirectory for snap manifest files.
const SnapsDirName = "snaps"

// MetaDirName is the name of the subdirectory for the snap ID counter.
const MetaDirName = "meta"

// IgnoreFilename is the name of the file containing user-defined ignore patterns.
const IgnoreFilename = ".ingestignore"

// SettingsFilename is the default settings file looked up in a watched root.
const SettingsFilename = ".ingestwatcher.yaml"

// defaultIgnorePatterns are always applied, before any user pattern.
var defaultIgnorePatterns = []string{
	".git",
	".git/**",
	DataDirName,
	DataDirName + "/**",
	IgnoreFilename,
	SettingsFilename,
}

// matchMutex serializes every use of the gitignore library, which is not
// safe for concurrent matching.
var matchMutex = &sync.Mutex{}

// --- Path Helper Functions ---

// GetDataDir returns the absolute path to the .ingestwatcher directory for a given base directory.
func GetDataDir(baseDir string) string {
	return filepath.Join(baseDir, DataDirName)
}

// GetSnapsDir returns the absolute path to the snaps subdirectory.
func GetSnapsDir(baseDir string) string {
	return filepath.Join(GetDataDir(baseDir), SnapsDirName)
}

// GetMetaDir returns the absolute path to the meta subdirectory.
func GetMetaDir(baseDir string) string {
	return filepath.Join(GetDataDir(baseDir), MetaDirName)
}

// DataPaths holds the structured paths for the data directory.
type DataPaths struct {
	DataDir  string
	SnapsDir string
	MetaDir  string
}

// EnsureDirs ensures that the data directories exist, creating them if
// necessary. It is idempotent.
func EnsureDirs(baseDir string) (DataPaths, error) {
	paths := DataPaths{
		DataDir:  GetDataDir(baseDir),
		SnapsDir: GetSnapsDir(baseDir),
		MetaDir:  GetMetaDir(baseDir),
	}

	if err := os.MkdirAll(paths.SnapsDir, 0755); err != nil {
		return DataPaths{}, err
	}
	if err := os.MkdirAll(paths.MetaDir, 0755); err != nil {
		return DataPaths{}, err
	}

	return paths, nil
}

// IgnoreRules decides which paths below a base directory are left out of a
// snapshot.
type IgnoreRules struct {
	baseDir string
	matcher gitignore.GitIgnore
}

// LoadIgnoreRules compiles the default patterns, the patterns of the
// .ingestignore file in baseDir (if any) and extra, in that order.
func LoadIgnoreRules(baseDir string, extra []string) *IgnoreRules {
	canonicalBaseDir, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		canonicalBaseDir = baseDir
	}

	rawPatterns := make([]string, len(defaultIgnorePatterns))
	copy(rawPatterns, defaultIgnorePatterns)

	content, err := os.ReadFile(filepath.Join(canonicalBaseDir, IgnoreFilename))
	if err == nil {
		rawPatterns = append(rawPatterns, strings.Split(string(content), "\n")...)
	}
	rawPatterns = append(rawPatterns, extra...)

	return &IgnoreRules{
		baseDir: canonicalBaseDir,
		matcher: compilePatterns(canonicalBaseDir, rawPatterns),
	}
}

// compilePatterns drops comments and blank lines and builds the matcher.
func compilePatterns(baseDir string, rawPatterns []string) gitignore.GitIgnore {
	var finalPatterns []string
	for _, p := range rawPatterns {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		trimmed = strings.ReplaceAll(trimmed, "\\", "/")

		// The library handles "dir/**" more reliably than a bare "dir/".
		if strings.HasSuffix(trimmed, "/") && !strings.HasSuffix(trimmed, "**/") {
			trimmed = trimmed + "**"
		}
		finalPatterns = append(finalPatterns, trimmed)
	}

	matchMutex.Lock()
	defer matchMutex.Unlock()

	matcher := gitignore.New(
		strings.NewReader(strings.Join(finalPatterns, "\n")),
		baseDir,
		func(err gitignore.Error) bool { return false },
	)
	if matcher == nil {
		return gitignore.New(strings.NewReader(""), "", nil)
	}
	return matcher
}

// BaseDir returns the canonical directory the rules are relative to.
func (r *IgnoreRules) BaseDir() string {
	return r.baseDir
}

// IsIgnored reports whether path should be left out. The path must exist:
// the matcher stats it to tell files from directories. Paths outside the
// base directory are never ignored.
func (r *IgnoreRules) IsIgnored(path string) bool {
	matchMutex.Lock()
	defer matchMutex.Unlock()

	canonicalPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonicalPath = path
	}

	relativePath, err := filepath.Rel(r.baseDir, canonicalPath)
	if err != nil || relativePath == "." || relativePath == ".." ||
		strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return false
	}

	match := r.matcher.Match(canonicalPath)
	if match == nil {
		return false
	}
	return match.Ignore()
}
