package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/bft-labs/tokenlife/pkg/token"
)

// FileName is the name of the snapshot file inside the repository directory.
const FileName = "token.json"

// FileRepository implements Repository using a JSON file.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a FileRepository rooted at dir.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Load reads the snapshot from disk.
func (r *FileRepository) Load(ctx context.Context) (token.State, error) {
	if err := ctx.Err(); err != nil {
		return token.State{}, err
	}

	data, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return token.Initial(), nil
		}
		return token.State{}, fmt.Errorf("read snapshot: %w", err)
	}

	var st token.State
	if err := json.Unmarshal(data, &st); err != nil {
		return token.State{}, fmt.Errorf("decode snapshot %s: %w", r.Path(), err)
	}
	if err := st.Validate(); err != nil {
		return token.State{}, fmt.Errorf("snapshot %s: %w", r.Path(), err)
	}
	return st, nil
}

// Save writes st to a temp file and renames it over the snapshot.
func (r *FileRepository) Save(ctx context.Context, st token.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Clear deletes the snapshot file.
func (r *FileRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(r.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}

// Dir returns the repository directory.
func (r *FileRepository) Dir() string {
	return r.dir
}

// Path returns the full path to the snapshot file.
func (r *FileRepository) Path() string {
	return filepath.Join(r.dir, FileName)
}
