package commit

import (
	"testing"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/stretchr/testify/assert"
)

func rec(path string, kind changes.Kind, lang string) changes.Record {
	return changes.Record{FilePath: path, Kind: kind, Language: lang, Description: changes.BaseDescription(path, kind)}
}

func TestHeuristicEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "chore: update code", Heuristic(nil))
	assert.Equal(t, "chore: update code", Heuristic([]changes.Record{}))
}

func TestHeuristicSingleChange(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		record changes.Record
		want   string
	}{
		{"added_with_language", rec("src/main.go", changes.KindAdded, "go"), "feat(go): add main"},
		{"added_without_language", rec("LICENSE", changes.KindAdded, ""), "feat: add LICENSE"},
		{"deleted_with_language", rec("old/legacy.py", changes.KindDeleted, "python"), "chore(python): remove legacy"},
		{"deleted_without_language", rec("notes.txt", changes.KindDeleted, ""), "chore: remove notes"},
		{"renamed_with_language", rec("src/App.tsx", changes.KindRenamed, "typescript"), "refactor(typescript): rename App"},
		{"renamed_without_language", rec("Makefile", changes.KindRenamed, ""), "refactor: rename Makefile"},
		{"modified_with_language", rec("lib/util.js", changes.KindModified, "javascript"), "fix(javascript): update util"},
		{"modified_without_language", rec("docs/guide.txt", changes.KindModified, ""), "fix: update guide"},
		{"unknown_kind_behaves_as_modified", rec("a.rb", changes.Kind("copied"), "ruby"), "fix(ruby): update a"},
		{"stem_falls_back_to_file", rec(".gitignore", changes.KindModified, ""), "fix: update file"},
		{"manual_input", changes.Record{FilePath: "manual-input", Kind: changes.KindModified, Description: "Added login"}, "fix: update manual-input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Heuristic([]changes.Record{tt.record}))
		})
	}
}

func TestHeuristicMultipleChanges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		records []changes.Record
		want    string
	}{
		{
			name: "added_and_modified_same_language",
			records: []changes.Record{
				rec("a.ts", changes.KindAdded, "typescript"),
				rec("b.ts", changes.KindModified, "typescript"),
			},
			want: "feat(typescript): add new features and update existing code",
		},
		{
			name: "added_and_modified_different_languages",
			records: []changes.Record{
				rec("a.ts", changes.KindAdded, "typescript"),
				rec("b.py", changes.KindModified, "python"),
			},
			want: "feat: add new features and update existing code",
		},
		{
			name: "languageless_records_do_not_break_scope",
			records: []changes.Record{
				rec("a.go", changes.KindAdded, "go"),
				rec("Makefile", changes.KindModified, ""),
			},
			want: "feat(go): add new features and update existing code",
		},
		{
			name: "added_and_modified_outrank_deleted",
			records: []changes.Record{
				rec("a.go", changes.KindAdded, "go"),
				rec("b.go", changes.KindModified, "go"),
				rec("c.go", changes.KindDeleted, "go"),
			},
			want: "feat(go): add new features and update existing code",
		},
		{
			name: "deleted_without_modified",
			records: []changes.Record{
				rec("a.go", changes.KindDeleted, "go"),
				rec("b.go", changes.KindDeleted, "go"),
			},
			want: "chore: remove unused files",
		},
		{
			name: "deleted_and_added",
			records: []changes.Record{
				rec("a.go", changes.KindDeleted, "go"),
				rec("b.go", changes.KindAdded, "go"),
			},
			want: "chore: remove unused files",
		},
		{
			name: "deleted_with_modified",
			records: []changes.Record{
				rec("a.go", changes.KindDeleted, "go"),
				rec("b.go", changes.KindModified, "go"),
			},
			want: "refactor: restructure and remove unused code",
		},
		{
			name: "deleted_outranks_renamed",
			records: []changes.Record{
				rec("a.go", changes.KindDeleted, "go"),
				rec("b.go", changes.KindRenamed, "go"),
			},
			want: "chore: remove unused files",
		},
		{
			name: "renamed",
			records: []changes.Record{
				rec("a.go", changes.KindRenamed, "go"),
				rec("b.go", changes.KindModified, "go"),
			},
			want: "refactor: reorganize file structure",
		},
		{
			name: "only_added_falls_to_default",
			records: []changes.Record{
				rec("a.go", changes.KindAdded, "go"),
				rec("b.go", changes.KindAdded, "go"),
			},
			want: "fix(go): resolve issues and improve code",
		},
		{
			name: "only_modified_single_language",
			records: []changes.Record{
				rec("a.py", changes.KindModified, "python"),
				rec("b.py", changes.KindModified, "python"),
			},
			want: "fix(python): resolve issues and improve code",
		},
		{
			name: "only_modified_mixed_languages",
			records: []changes.Record{
				rec("a.py", changes.KindModified, "python"),
				rec("b.go", changes.KindModified, "go"),
			},
			want: "fix: resolve issues and improve code",
		},
		{
			name: "only_modified_no_languages",
			records: []changes.Record{
				rec("a.txt", changes.KindModified, ""),
				rec("b.txt", changes.KindModified, ""),
			},
			want: "fix: resolve issues and improve code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Heuristic(tt.records))
		})
	}
}

func TestHeuristicAddingModifiedChangesDeletionMessage(t *testing.T) {
	t.Parallel()
	records := []changes.Record{rec("gone.go", changes.KindDeleted, "go")}
	records = append(records, rec("stale.go", changes.KindDeleted, "go"))
	assert.Equal(t, "chore: remove unused files", Heuristic(records))

	records = append(records, rec("kept.go", changes.KindModified, "go"))
	assert.Equal(t, "refactor: restructure and remove unused code", Heuristic(records))
}

func TestSuggestType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"jest_test", []string{"src/a.test.ts", "README.md"}, "test"},
		{"spec_file", []string{"src/a.spec.js"}, "test"},
		{"tests_dir", []string{"src/__tests__/a.js"}, "test"},
		{"go_test", []string{"pkg/a/a_test.go"}, "test"},
		{"test_dir", []string{"test/helpers.py"}, "test"},
		{"readme", []string{"README", "package.json"}, "docs"},
		{"docs_dir", []string{"docs/intro.txt"}, "docs"},
		{"package_json", []string{"package.json"}, "chore"},
		{"go_mod", []string{"go.mod"}, "chore"},
		{"code", []string{"src/main.go"}, "fix"},
		{"empty", nil, "fix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			records := make([]changes.Record, 0, len(tt.paths))
			for _, p := range tt.paths {
				records = append(records, rec(p, changes.KindModified, changes.LanguageForPath(p)))
			}
			assert.Equal(t, tt.want, SuggestType(records))
		})
	}
}
