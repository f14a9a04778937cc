// Package commit derives conventional-commit messages from change records.
package commit

import (
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
)

// EmptyMessage is returned when there is nothing to describe.
const EmptyMessage = "chore: update code"

// Heuristic builds a message from fixed rules. It never fails and needs
// no network access.
func Heuristic(records []changes.Record) string {
	switch len(records) {
	case 0:
		return EmptyMessage
	case 1:
		return singleChangeMessage(records[0])
	}

	kinds := make(map[changes.Kind]bool, len(records))
	for _, r := range records {
		kinds[r.Kind] = true
	}
	scope := sharedLanguage(records)

	// First matching rule wins.
	switch {
	case kinds[changes.KindAdded] && kinds[changes.KindModified]:
		return format("feat", scope, "add new features and update existing code")
	case kinds[changes.KindDeleted]:
		if kinds[changes.KindModified] {
			return "refactor: restructure and remove unused code"
		}
		return "chore: remove unused files"
	case kinds[changes.KindRenamed]:
		return "refactor: reorganize file structure"
	default:
		return format("fix", scope, "resolve issues and improve code")
	}
}

func singleChangeMessage(r changes.Record) string {
	stem := r.Stem()
	switch r.Kind {
	case changes.KindAdded:
		return format("feat", r.Language, "add "+stem)
	case changes.KindDeleted:
		return format("chore", r.Language, "remove "+stem)
	case changes.KindRenamed:
		return format("refactor", r.Language, "rename "+stem)
	default:
		return format("fix", r.Language, "update "+stem)
	}
}

// sharedLanguage returns the language when exactly one distinct language
// appears among the records that have one.
func sharedLanguage(records []changes.Record) string {
	var lang string
	for _, r := range records {
		if !r.HasLanguage() {
			continue
		}
		if lang != "" && r.Language != lang {
			return ""
		}
		lang = r.Language
	}
	return lang
}

func format(typ, scope, description string) string {
	if scope == "" {
		return fmt.Sprintf("%s: %s", typ, description)
	}
	return fmt.Sprintf("%s(%s): %s", typ, scope, description)
}

// SuggestType guesses a commit type from the paths alone: test, docs,
// chore (build configuration) or fix. It does not influence Heuristic.
func SuggestType(records []changes.Record) string {
	has := func(match func(string) bool) bool {
		for _, r := range records {
			if match(r.FilePath) {
				return true
			}
		}
		return false
	}

	switch {
	case has(isTestPath):
		return "test"
	case has(isDocsPath):
		return "docs"
	case has(isConfigPath):
		return "chore"
	default:
		return "fix"
	}
}

func isTestPath(p string) bool {
	return strings.Contains(p, ".test.") ||
		strings.Contains(p, ".spec.") ||
		strings.Contains(p, "__tests__") ||
		strings.Contains(p, "test/") ||
		strings.HasSuffix(p, "_test.go")
}

func isDocsPath(p string) bool {
	return strings.Contains(p, ".md") ||
		strings.Contains(p, "docs/") ||
		strings.Contains(p, "README")
}

func isConfigPath(p string) bool {
	for _, name := range []string{"package.json", "tsconfig.json", ".eslintrc", "webpack.config", "go.mod"} {
		if strings.Contains(p, name) {
			return true
		}
	}
	return false
}
