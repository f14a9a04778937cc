// Package describe turns the text of a changed file into a one-line
// description by scanning it for surface tokens such as class, function
// and import declarations. It is a lexical scan, not a parser: a string
// literal containing "class Foo" counts as a class.
package describe

import (
	"fmt"
	"regexp"
	"strings"
)

// Summary is the raw result of scanning one file.
type Summary struct {
	Classes   []string
	Functions []string
	Imports   []string
	Lines     int

	// FunctionLabel is "functions" or, for Java, "methods".
	FunctionLabel string
	// Scanned is false when the language has no scanner and only Lines is set.
	Scanned bool
}

type scanner struct {
	functions     *regexp.Regexp
	classes       *regexp.Regexp
	imports       *regexp.Regexp
	functionLabel string
}

var classPattern = regexp.MustCompile(`class\s+(\w+)`)

var (
	scriptScanner = scanner{
		functions:     regexp.MustCompile(`function\s+(\w+)|(\w+)\s*[:=]\s*(?:async\s*)?\(`),
		classes:       classPattern,
		imports:       regexp.MustCompile("import\\s+.*from\\s+['\"`]([^'\"`]+)['\"`]"),
		functionLabel: "functions",
	}
	pythonScanner = scanner{
		functions:     regexp.MustCompile(`def\s+(\w+)`),
		classes:       classPattern,
		imports:       regexp.MustCompile(`import\s+\w+|from\s+\w+\s+import`),
		functionLabel: "functions",
	}
	javaScanner = scanner{
		functions:     regexp.MustCompile(`(?:public|private|protected)?\s*(?:static\s+)?\w+\s+(\w+)\s*\(`),
		classes:       classPattern,
		imports:       regexp.MustCompile(`import\s+[\w.]+;`),
		functionLabel: "methods",
	}
)

func scannerFor(language string) (scanner, bool) {
	switch language {
	case "typescript", "javascript":
		return scriptScanner, true
	case "python":
		return pythonScanner, true
	case "java":
		return javaScanner, true
	}
	return scanner{}, false
}

// Scan runs the scanner for language over content. Languages without a
// scanner only get a line count.
func Scan(content, language string) Summary {
	s := Summary{Lines: CountLines(content), FunctionLabel: "functions"}
	sc, ok := scannerFor(language)
	if !ok {
		return s
	}
	s.Scanned = true
	s.FunctionLabel = sc.functionLabel
	s.Classes = names(sc.classes, content)
	s.Functions = names(sc.functions, content)
	s.Imports = sc.imports.FindAllString(content, -1)
	return s
}

// Describe returns the description for the file at path. Precedence is
// fixed: classes, then functions, then imports, then the line count.
func Describe(content, path, language string) string {
	return Scan(content, language).Describe(path)
}

// Describe renders the summary for path.
func (s Summary) Describe(path string) string {
	switch {
	case len(s.Classes) > 0:
		return fmt.Sprintf("Updated %s - classes: %s", path, strings.Join(s.Classes, ", "))
	case len(s.Functions) > 0:
		return fmt.Sprintf("Updated %s - %s: %s", path, s.FunctionLabel, strings.Join(s.Functions, ", "))
	case len(s.Imports) > 0:
		return fmt.Sprintf("Updated %s - added imports", path)
	default:
		return fmt.Sprintf("Updated %s (%d lines)", path, s.Lines)
	}
}

// CountLines counts newline-separated lines; empty content is one line.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}

// names returns the first non-empty capture group of every match.
func names(re *regexp.Regexp, content string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		for _, g := range m[1:] {
			if g != "" {
				out = append(out, g)
				break
			}
		}
	}
	return out
}
