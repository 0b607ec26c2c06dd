package resume

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spigell/ats-matcher/internal/keywords"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "only whitespace", input: " \n\t ", expect: ""},
		{name: "newlines and tabs", input: "Data Analyst\n\nPython,\tSQL  ", expect: "Data Analyst Python, SQL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CleanText(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestLoadPlainText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resume.txt")
	text := `
Data Analyst with 3 years of experience.
Expert in Python, SQL, Excel, and Tableau.
Built dashboards using Power BI.
Strong analytical and problem solving skills.
`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path, keywords.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"analytical", "excel", "power bi", "problem solving", "python", "sql", "tableau"}
	if got := r.Keywords.Sorted(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected keywords: %v, want %v", got, want)
	}
	if r.Text[0] != 'D' {
		t.Fatalf("expected cleaned text, got %q", r.Text)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.txt"), keywords.Default()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.pdf"), keywords.Default()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error for pdf, got %v", err)
	}

	docx := filepath.Join(dir, "resume.docx")
	if err := os.WriteFile(docx, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(docx, keywords.Default()); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
