// Package session loads edit session manifests. A manifest is a JSONC file
// naming the documents of one debugger edit session, either one by one or
// as pairs of directory snapshots, plus the capabilities of the debuggee.
package session

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/muhammadmuzzammil1998/jsonc"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yaklabco/encheck/pkg/fsutil"
	"github.com/yaklabco/encheck/pkg/runner"
)

// ErrInvalidManifest is returned for manifests that are not valid JSONC or
// do not match the session schema.
var ErrInvalidManifest = errors.New("invalid session manifest")

//go:embed session.schema.json
var schemaJSON []byte

const schemaURL = "mem://schemas/session.schema.json"

var (
	compileOnce sync.Once
	schema      *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("decode session schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("register session schema: %w", err)
			return
		}
		schema, compileErr = c.Compile(schemaURL)
	})
	return schema, compileErr
}

// Document names one file in its two versions. A missing side means the
// file was added or removed.
type Document struct {
	Path string `json:"path"`
	Old  string `json:"old,omitempty"`
	New  string `json:"new,omitempty"`
}

// Directory pairs two snapshots of a source tree.
type Directory struct {
	Old     string   `json:"old"`
	New     string   `json:"new"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Manifest is a parsed session manifest. Relative paths are resolved
// against Dir.
type Manifest struct {
	Name         string      `json:"name,omitempty"`
	Capabilities []string    `json:"capabilities,omitempty"`
	Documents    []Document  `json:"documents,omitempty"`
	Directories  []Directory `json:"directories,omitempty"`

	// Path is the manifest file; Dir its directory.
	Path string `json:"-"`
	Dir  string `json:"-"`
}

// Load reads and validates the manifest at path.
func Load(ctx context.Context, path string) (*Manifest, error) {
	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	clean := jsonc.ToJSON(data)

	var instance any
	if err := json.Unmarshal(clean, &instance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	var m Manifest
	if err := json.Unmarshal(clean, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// Pairs expands the manifest into document pairs: explicit documents first,
// in manifest order, then each directory pair sorted by path. Directory
// entries without include patterns use the given defaults.
func (m *Manifest) Pairs(ctx context.Context, defaults runner.DiscoverOptions) ([]runner.Pair, error) {
	var pairs []runner.Pair
	for _, d := range m.Documents {
		pairs = append(pairs, runner.Pair{
			Path:    d.Path,
			OldPath: m.resolve(d.Old),
			NewPath: m.resolve(d.New),
		})
	}

	for _, d := range m.Directories {
		opts := runner.DiscoverOptions{Include: d.Include, Exclude: d.Exclude}
		if len(opts.Include) == 0 {
			opts.Include = defaults.Include
		}
		if len(opts.Exclude) == 0 {
			opts.Exclude = defaults.Exclude
		}
		found, err := runner.PairDirectories(ctx, m.resolve(d.Old), m.resolve(d.New), opts)
		if err != nil {
			return nil, fmt.Errorf("pairing %s and %s: %w", d.Old, d.New, err)
		}
		pairs = append(pairs, found...)
	}
	return pairs, nil
}

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, filepath.FromSlash(p))
}
