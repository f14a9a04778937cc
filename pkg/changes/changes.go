// Package changes defines the change records handed from repository
// discovery to commit message synthesis.
package changes

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the closed set of ways a file can change in the working tree.
type Kind string

const (
	KindAdded    Kind = "added"
	KindModified Kind = "modified"
	KindDeleted  Kind = "deleted"
	KindRenamed  Kind = "renamed"
)

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAdded, KindModified, KindDeleted, KindRenamed:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Record describes one changed file. Records are plain values and are
// never modified once built.
//
// LinesAdded and LinesDeleted are markers, not diff counts: LinesAdded is
// 1 for an added file and LinesDeleted is 1 for a deleted file.
type Record struct {
	FilePath     string
	Description  string
	Kind         Kind
	Language     string
	LinesAdded   int
	LinesDeleted int
}

// NewRecord builds a record for path with the generic description for its
// kind and the language detected from its extension.
func NewRecord(path string, kind Kind) Record {
	r := Record{
		FilePath:    path,
		Description: BaseDescription(path, kind),
		Kind:        kind,
		Language:    LanguageForPath(path),
	}
	switch kind {
	case KindAdded:
		r.LinesAdded = 1
	case KindDeleted:
		r.LinesDeleted = 1
	}
	return r
}

// BaseDescription is the description used before any content scanning.
func BaseDescription(path string, kind Kind) string {
	switch kind {
	case KindAdded:
		return "Added " + path
	case KindModified:
		return "Modified " + path
	case KindDeleted:
		return "Deleted " + path
	case KindRenamed:
		return "Renamed " + path
	default:
		return "Changed " + path
	}
}

// HasLanguage reports whether a language was detected for the record.
func (r Record) HasLanguage() bool {
	return r.Language != ""
}

// Summary renders the record as a prompt bullet: "- <kind>: <description>".
func (r Record) Summary() string {
	return fmt.Sprintf("- %s: %s", r.Kind, r.Description)
}

// Stem returns the final "/"-separated path segment cut at its first dot,
// or "file" when nothing is left. Backslashes are not separators.
func (r Record) Stem() string {
	base := r.FilePath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return "file"
	}
	return base
}

// LanguageForPath maps a path's extension to a language name. Unknown
// extensions yield "".
func LanguageForPath(path string) string {
	return languageByExt[strings.ToLower(filepath.Ext(path))]
}

var languageByExt = map[string]string{
	".ts":    "typescript",
	".tsx":   "typescript",
	".js":    "javascript",
	".jsx":   "javascript",
	".py":    "python",
	".java":  "java",
	".cpp":   "cpp",
	".c":     "c",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
	".less":  "less",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".md":    "markdown",
}
