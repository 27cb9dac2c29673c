package properties

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	domain "github.com/oshokin/mc-bootstrap/internal/domain/properties"
)

// DefaultFileMode is used when the target file does not exist yet.
const DefaultFileMode os.FileMode = 0o644

// Repository defines persistence operations for a properties document.
type Repository interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

// FileRepository stores a properties document in a single file.
type FileRepository struct {
	// path is the filesystem location of the file.
	path string
	// mu serialises access from this process.
	mu sync.Mutex
}

// ErrNotFound is returned when the file does not exist.
var ErrNotFound = errors.New("properties file not found")

// NewFileRepository creates a repository for the file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Exists reports whether the file is present.
func (r *FileRepository) Exists() bool {
	info, err := os.Stat(r.path)

	return err == nil && info.Mode().IsRegular()
}

// Load reads and parses the file.
func (r *FileRepository) Load(_ context.Context) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	return domain.Parse(contents), nil
}

// Save replaces the file with the rendered document.
// The original file mode is kept; a crash leaves either the old or the new contents.
func (r *FileRepository) Save(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mode := DefaultFileMode
	if info, err := os.Stat(r.path); err == nil {
		mode = info.Mode().Perm()
	}

	return writeAtomic(r.path, doc.Bytes(), mode)
}

// writeAtomic writes data to a temporary sibling of path and renames it into place.
func writeAtomic(path string, data []byte, mode os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temporary file: %w", err)
	}

	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temporary file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	return nil
}
