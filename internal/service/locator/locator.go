package locator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/oshokin/bdupdater/internal/logger"
)

// Locator searches candidate directories, then PATH, for the application executable.
type Locator struct {
	// candidates are checked first, in order.
	candidates []string
	// searchPath is the PATH value whose entries are checked after candidates.
	searchPath string
	// executable is the file name that marks an install directory.
	executable string
}

// New creates a Locator. searchPath uses the os.PathListSeparator format of $PATH.
func New(candidates []string, searchPath, executable string) *Locator {
	return &Locator{
		candidates: candidates,
		searchPath: searchPath,
		executable: executable,
	}
}

// Find returns the first directory holding the executable.
// The second result is false when nothing matched.
func (l *Locator) Find(ctx context.Context) (string, bool) {
	for _, dir := range l.candidates {
		if l.hasExecutable(dir) {
			logger.DebugKV(ctx, "Install found in candidate directory", "dir", dir)
			return dir, true
		}
	}

	for _, dir := range filepath.SplitList(l.searchPath) {
		if dir == "" {
			continue
		}

		if l.hasExecutable(dir) {
			logger.DebugKV(ctx, "Install found on PATH", "dir", dir)
			return dir, true
		}
	}

	return "", false
}

// Executable returns the full path of the executable inside dir.
func (l *Locator) Executable(dir string) string {
	return filepath.Join(dir, l.executable)
}

func (l *Locator) hasExecutable(dir string) bool {
	info, err := os.Stat(l.Executable(dir))
	if err != nil {
		return false
	}

	return !info.IsDir()
}
