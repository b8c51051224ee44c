package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"datagen/internal/diagnostic"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FS stores artifacts as Go files inside a module checkout.
type FS struct {
	root   string
	module string
}

// NewFS creates a store for the module whose go.mod lives in root.
func NewFS(root, module string) *FS {
	return &FS{root: root, module: strings.TrimSuffix(module, "/")}
}

// Path implements Locator. Packages outside the module cannot be stored.
func (s *FS) Path(ref ArtifactRef) (string, error) {
	var rel string

	switch {
	case ref.Package == s.module:
	case strings.HasPrefix(ref.Package, s.module+"/"):
		rel = strings.TrimPrefix(ref.Package, s.module+"/")
	default:
		return "", fmt.Errorf("package %s is outside module %s", ref.Package, s.module)
	}

	return filepath.Join(s.root, filepath.FromSlash(rel), ref.Filename()), nil
}

// Read implements Store.
func (s *FS) Read(ctx context.Context, ref ArtifactRef) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	path, err := s.Path(ref)
	if err != nil {
		return nil, false, persistErr(ref, "read", err)
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, persistErr(ref, "read", err)
	}

	return content, true, nil
}

// Write implements Store. The file is written to a temporary sibling and
// renamed over the target, so readers never see partial content.
func (s *FS) Write(ctx context.Context, ref ArtifactRef, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.Path(ref)
	if err != nil {
		return persistErr(ref, "write", err)
	}

	if err := writeAtomic(path, content); err != nil {
		return persistErr(ref, "write", err)
	}

	return nil
}

// CreateSkeleton implements Store.
func (s *FS) CreateSkeleton(ctx context.Context, ref ArtifactRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.Path(ref)
	if err != nil {
		return persistErr(ref, "create", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return persistErr(ref, "create", fmt.Errorf("creating package directory: %w", err))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}

	if err != nil {
		return persistErr(ref, "create", err)
	}

	if _, err := f.Write(Skeleton(ref)); err != nil {
		f.Close()
		return persistErr(ref, "create", err)
	}

	if err := f.Close(); err != nil {
		return persistErr(ref, "create", err)
	}

	return nil
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating package directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".datagen-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func persistErr(ref ArtifactRef, op string, err error) error {
	return &diagnostic.PersistenceError{Artifact: ref.String(), Op: op, Err: err}
}
