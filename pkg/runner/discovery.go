package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned for malformed include or exclude globs.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Pair is one document in its old and new versions. A side with neither a
// path nor inline content is empty: the document was added or removed.
type Pair struct {
	// Path names the document in reports.
	Path string

	OldPath string
	NewPath string

	// Old and New hold inline content. They take precedence over the paths.
	Old []byte
	New []byte
}

// PairDirectories matches files under oldRoot and newRoot by relative path.
// Files present on one side only pair with an empty document. The result is
// sorted by path.
func PairDirectories(ctx context.Context, oldRoot, newRoot string, opts DiscoverOptions) ([]Pair, error) {
	for _, p := range append(append([]string{}, opts.effectiveInclude()...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}

	oldFiles, err := listFiles(ctx, oldRoot, opts)
	if err != nil {
		return nil, err
	}
	newFiles, err := listFiles(ctx, newRoot, opts)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*Pair)
	for _, rel := range oldFiles {
		byPath[rel] = &Pair{Path: rel, OldPath: filepath.Join(oldRoot, filepath.FromSlash(rel))}
	}
	for _, rel := range newFiles {
		p, ok := byPath[rel]
		if !ok {
			p = &Pair{Path: rel}
			byPath[rel] = p
		}
		p.NewPath = filepath.Join(newRoot, filepath.FromSlash(rel))
	}

	keys := make([]string, 0, len(byPath))
	for k := range byPath {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, *byPath[k])
	}
	return pairs, nil
}

// listFiles returns the slash-separated relative paths of files under root
// that match the include patterns and none of the exclude patterns. Hidden
// directories are skipped.
func listFiles(ctx context.Context, root string, opts DiscoverOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []string
	err = fs.WalkDir(os.DirFS(root), ".", func(rel string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if rel != "." && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			if rel != "." && matchesAny(opts.Exclude, rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if matchesAny(opts.effectiveInclude(), rel) && !matchesAny(opts.Exclude, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// matchesAny reports whether name matches one of the patterns. Patterns
// without a slash also match the base name, so "*.g.cs" excludes generated
// files at any depth.
func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, err := doublestar.Match(p, path.Base(strings.TrimSuffix(name, "/"))); err == nil && ok {
				return true
			}
		}
	}
	return false
}
