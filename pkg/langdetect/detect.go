// Package langdetect decides whether a document is C# before it reaches the
// parser. It uses go-enry for file name and content classification, so
// scenario fences without a language tag and files with unusual extensions
// are still recognised.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language tags returned by Detect.
const (
	LangCSharp = "csharp"
	LangText   = "text"
)

// enryCSharp is the linguist name of the language.
const enryCSharp = "C#"

// fenceAliases are the Markdown info strings that name C#.
var fenceAliases = map[string]bool{
	"csharp": true,
	"cs":     true,
	"c#":     true,
}

// classifierCandidates are the languages C# snippets are most often
// confused with.
var classifierCandidates = []string{enryCSharp, "Java", "C++", "TypeScript", "Go", "Kotlin"}

// Detect returns the language tag for content. Returns "text" when the
// content is empty or the classifier is unsure.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if looksLikeCSharp(content) {
		return LangCSharp
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// IsCSharp reports whether the file at path holds C#. The extension is
// trusted when enry knows it; otherwise the content decides. Extensions
// shared with other languages (".cs" is also Smalltalk) count as C#.
func IsCSharp(path string, content []byte) bool {
	if filepath.Ext(path) != "" {
		if langs := enry.GetLanguagesByExtension(path, content, nil); len(langs) > 0 {
			return slices.Contains(langs, enryCSharp)
		}
	}
	return Detect(content) == LangCSharp
}

// IsCSharpFence reports whether a Markdown fence info string names C#.
// An empty info string falls back to the content.
func IsCSharpFence(info string, content []byte) bool {
	tag := strings.ToLower(strings.TrimSpace(info))
	if tag == "" {
		return Detect(content) == LangCSharp
	}
	if i := strings.IndexAny(tag, " \t{"); i >= 0 {
		tag = tag[:i]
	}
	return fenceAliases[tag]
}

// looksLikeCSharp matches constructs the classifier tends to miss in short
// snippets.
func looksLikeCSharp(content []byte) bool {
	s := string(content)
	switch {
	case strings.Contains(s, "using System"):
		return true
	case strings.Contains(s, "namespace ") && strings.Contains(s, "class "):
		return true
	case strings.Contains(s, "Console.Write"):
		return true
	case strings.Contains(s, " get; ") || strings.Contains(s, "{ get;"):
		return true
	}
	return false
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == enryCSharp {
		return LangCSharp
	}
	return strings.ToLower(lang)
}
