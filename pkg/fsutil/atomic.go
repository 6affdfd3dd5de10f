package fsutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// ErrStale is returned when a file changed after its snapshot was taken.
var ErrStale = errors.New("file changed since it was read")

// WriteAtomic replaces path with content through a temp file in the same
// directory that is renamed into place. A zero mode means DefaultFileMode.
// On error the target is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := writeSynced(tmp, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	committed = true
	return nil
}

func writeSynced(f *os.File, content []byte, mode os.FileMode) error {
	if _, err := f.Write(content); err != nil {
		return err
	}
	if err := f.Chmod(mode); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return f.Close()
}

// WriteAtomicIfChanged writes content unless the file already holds it and
// reports whether a write happened. A zero mode keeps the mode of an
// existing file.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	existing, snap, err := ReadFile(ctx, path)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := WriteAtomic(ctx, path, content, mode); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, err
	case bytes.Equal(existing, content):
		return false, nil
	}
	return replace(ctx, snap, content, mode)
}

// ReplaceIfUnchanged writes content over the file recorded by snap. It fails
// with ErrStale when the file changed since the snapshot and skips the
// write when content is what the snapshot already holds. A zero mode keeps
// the snapshot's mode.
func ReplaceIfUnchanged(ctx context.Context, snap *Snapshot, content []byte, mode os.FileMode) (bool, error) {
	changed, err := Changed(ctx, snap)
	if err != nil {
		return false, err
	}
	if changed {
		return false, fmt.Errorf("%w: %s", ErrStale, snap.Path)
	}
	if sha256.Sum256(content) == snap.Hash {
		return false, nil
	}
	return replace(ctx, snap, content, mode)
}

func replace(ctx context.Context, snap *Snapshot, content []byte, mode os.FileMode) (bool, error) {
	if mode == 0 {
		mode = snap.Mode.Perm()
	}
	if err := WriteAtomic(ctx, snap.Path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}
