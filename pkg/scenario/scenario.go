// Package scenario reads Markdown scenario files. Each second-level section
// holds a C# edit as a "before" and an "after" fence and, optionally, an
// "expect" fence listing the rude edit kinds the edit must produce.
//
//	## Renaming a captured local
//
//	```csharp before
//	int x = 1; F(() => x);
//	```
//
//	```csharp after
//	int X = 1; F(() => X);
//	```
//
//	```expect
//	RenamingCapturedVariable
//	```
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/encheck/pkg/langdetect"
	"github.com/yaklabco/encheck/pkg/rude"
)

// Sentinel errors.
var (
	// ErrNoScenarios is returned for files without any scenario section.
	ErrNoScenarios = errors.New("no scenarios found")

	// ErrMalformed is returned for sections that do not hold exactly one
	// before and one after fence, or whose expectations do not parse.
	ErrMalformed = errors.New("malformed scenario")
)

// SectionLevel is the heading level that starts a scenario.
const SectionLevel = 2

// expectNone marks an expect fence that requires a clean edit.
const expectNone = "none"

// Scenario is one edit under test.
type Scenario struct {
	Name string
	Line int

	Old []byte
	New []byte

	// Expect lists the expected kinds; meaningful only when HasExpect.
	Expect    []rude.Kind
	HasExpect bool
}

// File is a parsed scenario file.
type File struct {
	Path      string
	Title     string
	Scenarios []Scenario
}

// Parser parses scenario files. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a scenario parser.
func NewParser() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Parse reads the scenarios in content.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := p.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))
	file := &File{Path: path}

	var current *section
	var sections []*section
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := lines(node, content)
			switch {
			case node.Level == SectionLevel:
				current = &section{name: title, line: lineOf(node, content)}
				sections = append(sections, current)
			case node.Level < SectionLevel && file.Title == "":
				file.Title = title
			}
		case *ast.FencedCodeBlock:
			if current != nil {
				current.fences = append(current.fences, fenceOf(node, content))
			}
		}
	}

	for _, s := range sections {
		sc, ok, err := s.scenario()
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, s.line, err)
		}
		if ok {
			file.Scenarios = append(file.Scenarios, sc)
		}
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoScenarios, path)
	}
	return file, nil
}

type fence struct {
	info string
	body []byte
}

type section struct {
	name   string
	line   int
	fences []fence
}

// scenario turns a section into a scenario. Sections without C# fences
// are prose and are skipped.
func (s *section) scenario() (Scenario, bool, error) {
	sc := Scenario{Name: s.name, Line: s.line}

	var code []fence
	for _, f := range s.fences {
		words := strings.Fields(strings.ToLower(f.info))
		switch {
		case len(words) > 0 && words[0] == "expect":
			kinds, err := parseExpect(f.body)
			if err != nil {
				return sc, false, err
			}
			sc.Expect, sc.HasExpect = kinds, true
		case langdetect.IsCSharpFence(f.info, f.body):
			code = append(code, f)
		}
	}
	if len(code) == 0 {
		return sc, false, nil
	}
	if len(code) != 2 {
		return sc, false, fmt.Errorf("%w: %q has %d C# fences, want before and after", ErrMalformed, s.name, len(code))
	}

	before, after := code[0], code[1]
	if role(before.info) == "after" || role(after.info) == "before" {
		before, after = after, before
	}
	sc.Old, sc.New = before.body, after.body
	return sc, true, nil
}

// role returns "before" or "after" when the fence info names it.
func role(info string) string {
	for _, w := range strings.Fields(strings.ToLower(info)) {
		if w == "before" || w == "after" {
			return w
		}
	}
	return ""
}

func parseExpect(body []byte) ([]rude.Kind, error) {
	var kinds []rude.Kind
	for _, line := range strings.Split(string(body), "\n") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if name == "" || strings.EqualFold(name, expectNone) {
			continue
		}
		kind, ok := rude.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown rude edit kind %q", ErrMalformed, name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func fenceOf(block *ast.FencedCodeBlock, content []byte) fence {
	f := fence{body: []byte(lines(block, content))}
	if block.Info != nil {
		f.info = string(block.Info.Value(content))
	}
	return f
}

// lines concatenates the raw lines of a block node.
func lines(n ast.Node, content []byte) string {
	var buf bytes.Buffer
	segs := n.Lines()
	for i := range segs.Len() {
		seg := segs.At(i)
		buf.Write(seg.Value(content))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func lineOf(n ast.Node, content []byte) int {
	segs := n.Lines()
	if segs.Len() == 0 {
		return 0
	}
	return bytes.Count(content[:segs.At(0).Start], []byte("\n")) + 1
}
