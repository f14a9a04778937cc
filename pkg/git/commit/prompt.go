package commit

import (
	"strings"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
)

// SystemInstruction is sent as the system message of every completion.
const SystemInstruction = "You are a helpful assistant that generates commit messages following conventional commit standards."

const promptTemplate = `You are a professional software developer. Generate a concise, descriptive commit message based on the following code changes.

Follow conventional commit format: <type>(<scope>): <description>

Rules:
1. Use conventional commit types: feat, fix, docs, style, refactor, test, chore, etc.
2. Keep the description under 50 characters
3. Be specific about what changed
4. Use imperative mood ("add" not "added")
5. Focus on the "why" not just the "what"

Changes:
{{changes}}

Generate only the commit message, no additional text:`

// SummarizeChanges renders one "- <kind>: <description>" line per record.
func SummarizeChanges(records []changes.Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Summary()
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt embeds the change summary in the instruction template.
func BuildPrompt(records []changes.Record) string {
	return strings.Replace(promptTemplate, "{{changes}}", SummarizeChanges(records), 1)
}
