package changes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageForPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want string
	}{
		{"src/app.ts", "typescript"},
		{"src/App.TSX", "typescript"},
		{"web/index.js", "javascript"},
		{"web/view.jsx", "javascript"},
		{"tool.py", "python"},
		{"Main.java", "java"},
		{"engine.cpp", "cpp"},
		{"lib.c", "c"},
		{"Program.cs", "csharp"},
		{"index.php", "php"},
		{"app.rb", "ruby"},
		{"cmd/main.go", "go"},
		{"src/lib.rs", "rust"},
		{"View.swift", "swift"},
		{"Main.kt", "kotlin"},
		{"App.scala", "scala"},
		{"index.html", "html"},
		{"site.css", "css"},
		{"site.scss", "scss"},
		{"site.less", "less"},
		{"package.json", "json"},
		{"pom.xml", "xml"},
		{"config.yaml", "yaml"},
		{"ci.yml", "yaml"},
		{"README.md", "markdown"},
		{"Makefile", ""},
		{"archive.tar.gz", ""},
		{"notes.txt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, LanguageForPath(tt.path))
		})
	}
}

func TestRecordStem(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want string
	}{
		{"src/main.go", "main"},
		{"main", "main"},
		{"src/button.test.tsx", "button"},
		{".gitignore", "file"},
		{"", "file"},
		{"dir/", "file"},
		{`dir\a.go`, `dir\a`},
		{`win\path\tool.py`, `win\path\tool`},
		{`src/win\tool.py`, `win\tool`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Record{FilePath: tt.path}.Stem(), "path %q", tt.path)
	}
}

func TestNewRecordMarkers(t *testing.T) {
	t.Parallel()

	added := NewRecord("a.go", KindAdded)
	assert.Equal(t, "Added a.go", added.Description)
	assert.Equal(t, "go", added.Language)
	assert.Equal(t, 1, added.LinesAdded)
	assert.Zero(t, added.LinesDeleted)

	deleted := NewRecord("b.py", KindDeleted)
	assert.Equal(t, "Deleted b.py", deleted.Description)
	assert.Equal(t, 1, deleted.LinesDeleted)
	assert.Zero(t, deleted.LinesAdded)

	modified := NewRecord("notes.txt", KindModified)
	assert.False(t, modified.HasLanguage())
	assert.Zero(t, modified.LinesAdded)
	assert.Zero(t, modified.LinesDeleted)

	assert.Equal(t, "Changed x", BaseDescription("x", Kind("copied")))
}

func TestKindValid(t *testing.T) {
	t.Parallel()
	for _, k := range []Kind{KindAdded, KindModified, KindDeleted, KindRenamed} {
		assert.True(t, k.Valid(), k.String())
	}
	assert.False(t, Kind("copied").Valid())
	assert.False(t, Kind("").Valid())
}

func TestRecordSummary(t *testing.T) {
	t.Parallel()
	r := Record{FilePath: "a.go", Kind: KindModified, Description: "Updated a.go - functions: run"}
	assert.Equal(t, "- modified: Updated a.go - functions: run", r.Summary())
}
