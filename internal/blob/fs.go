package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS stores each key as a file under a directory. The content type is kept
// in a sidecar "<key>.type" file.
type FS struct {
	dir string
}

// NewFS creates the directory if needed and returns a store rooted at it.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob fs: create %s: %w", dir, err)
	}
	return &FS{dir: dir}, nil
}

func (s *FS) Name() string { return "fs" }

func (s *FS) path(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) || strings.ContainsRune(clean, filepath.Separator) {
		return "", fmt.Errorf("blob fs: invalid key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *FS) Get(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	p, err := s.path(key)
	if err != nil {
		return Object{}, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, fmt.Errorf("blob fs: read %s: %w", key, err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return Object{}, fmt.Errorf("blob fs: stat %s: %w", key, err)
	}

	ct, _ := os.ReadFile(p + ".type")
	return Object{
		Data:        data,
		ContentType: strings.TrimSpace(string(ct)),
		UpdatedAt:   info.ModTime(),
	}, nil
}

// Put writes to a temporary file and renames it over the target so a reader
// never sees a half-written document.
func (s *FS) Put(ctx context.Context, key string, obj Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("blob fs: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(obj.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("blob fs: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("blob fs: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("blob fs: rename %s: %w", key, err)
	}
	if err := os.WriteFile(p+".type", []byte(obj.ContentType), 0o644); err != nil {
		return fmt.Errorf("blob fs: write content type %s: %w", key, err)
	}
	return nil
}
