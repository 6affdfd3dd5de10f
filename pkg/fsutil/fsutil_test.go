package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/encheck/pkg/fsutil"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Program.cs")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "class C { }")
		got, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "class C { }" {
			t.Errorf("content = %q", got)
		}
		if snap.Path != path || snap.Size != int64(len(got)) {
			t.Errorf("snapshot = %+v", snap)
		}
		var zero [32]byte
		if snap.Hash == zero {
			t.Error("Hash should not be zero")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.cs"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Fatalf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, _, err := fsutil.ReadFile(ctx, "any.cs"); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}

func TestChanged(t *testing.T) {
	t.Parallel()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "class C { }")
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		changed, err := fsutil.Changed(context.Background(), snap)
		if err != nil || changed {
			t.Fatalf("Changed() = %v, %v; want false, nil", changed, err)
		}
	})

	t.Run("rewritten", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "class C { }")
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(path, []byte("class D { }"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		// Same size; force equal metadata so the hash decides.
		if err := os.Chtimes(path, time.Now(), snap.ModTime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
		changed, err := fsutil.Changed(context.Background(), snap)
		if err != nil || !changed {
			t.Fatalf("Changed() = %v, %v; want true, nil", changed, err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "class C { }")
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove: %v", err)
		}
		changed, err := fsutil.Changed(context.Background(), snap)
		if err != nil || !changed {
			t.Fatalf("Changed() = %v, %v; want true, nil", changed, err)
		}
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.Changed(context.Background(), nil); !errors.Is(err, fsutil.ErrNilSnapshot) {
			t.Fatalf("error = %v, want ErrNilSnapshot", err)
		}
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	ctx := context.Background()

	if err := fsutil.WriteAtomic(ctx, path, []byte("{}"), 0); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != fsutil.DefaultFileMode {
		t.Errorf("mode = %o, want %o", info.Mode().Perm(), fsutil.DefaultFileMode)
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("{}"), 0)
	if err != nil || written {
		t.Fatalf("WriteAtomicIfChanged(same) = %v, %v; want false, nil", written, err)
	}
	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("[]"), 0)
	if err != nil || !written {
		t.Fatalf("WriteAtomicIfChanged(new) = %v, %v; want true, nil", written, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestReplaceIfUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	setup := func(t *testing.T) (string, *fsutil.Snapshot) {
		t.Helper()

		path := filepath.Join(t.TempDir(), ".encheck.yml")
		if err := os.WriteFile(path, []byte("capabilities: [Baseline]\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, snap, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		return path, snap
	}

	t.Run("keeps mode of the replaced file", func(t *testing.T) {
		t.Parallel()

		path, snap := setup(t)
		written, err := fsutil.ReplaceIfUnchanged(ctx, snap, []byte("capabilities: []\n"), 0)
		if err != nil || !written {
			t.Fatalf("ReplaceIfUnchanged() = %v, %v; want true, nil", written, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("mode = %o, want 600", info.Mode().Perm())
		}
	})

	t.Run("same content is not rewritten", func(t *testing.T) {
		t.Parallel()

		_, snap := setup(t)
		written, err := fsutil.ReplaceIfUnchanged(ctx, snap, []byte("capabilities: [Baseline]\n"), 0)
		if err != nil || written {
			t.Fatalf("ReplaceIfUnchanged() = %v, %v; want false, nil", written, err)
		}
	})

	t.Run("file changed after snapshot", func(t *testing.T) {
		t.Parallel()

		path, snap := setup(t)
		if err := os.WriteFile(path, []byte("capabilities: [Baseline, AddMethodToExistingType]\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		written, err := fsutil.ReplaceIfUnchanged(ctx, snap, []byte("capabilities: []\n"), 0)
		if !errors.Is(err, fsutil.ErrStale) || written {
			t.Fatalf("ReplaceIfUnchanged() = %v, %v; want false, ErrStale", written, err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(content) != "capabilities: [Baseline, AddMethodToExistingType]\n" {
			t.Errorf("stale file was overwritten: %q", content)
		}
	})
}
