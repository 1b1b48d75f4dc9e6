package marker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/bdupdater/internal/config"
	"github.com/oshokin/bdupdater/internal/domain/discord"
)

// Repository defines persistence operations for the version marker.
type Repository interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, version string) error
}

// FileRepository stores the marker as a plain-text file.
// No locking: concurrent runs race on the same file.
type FileRepository struct {
	// path is the filesystem location of the marker file.
	path string
}

// ErrNotFound is returned when no marker has been written yet.
var ErrNotFound = errors.New("version marker not found")

// NewFileRepository creates a repository reading and writing the marker at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the marker location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load returns the trimmed marker contents.
func (r *FileRepository) Load(_ context.Context) (string, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("read version marker: %w", err)
	}

	return discord.NormalizeVersion(string(contents)), nil
}

// Save overwrites the marker with version, writing "unknown" for an empty value.
func (r *FileRepository) Save(_ context.Context, version string) error {
	data := []byte(discord.NormalizeVersion(version))

	if err := os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}

	return nil
}
