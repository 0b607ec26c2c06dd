package keywords

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"
)

func TestExtractEmptyText(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\n\t"} {
		if got := Extract(text); got.Len() != 0 {
			t.Fatalf("expected empty set for %q, got %v", text, got.Sorted())
		}
	}

	var nilVocabulary *Vocabulary
	if got := nilVocabulary.Extract("python"); got.Len() != 0 {
		t.Fatalf("expected nil vocabulary to extract nothing, got %v", got.Sorted())
	}
}

func TestExtractWholeWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    []string
		exclude []string
	}{
		{
			name: "go as a word",
			text: "I code in Go",
			want: []string{"go"},
		},
		{
			name:    "go inside a word",
			text:    "a good day",
			exclude: []string{"go"},
		},
		{
			name:    "r inside for",
			text:    "looking for someone",
			exclude: []string{"r"},
		},
		{
			name: "case insensitive",
			text: "Python and SQL",
			want: []string{"python", "sql"},
		},
		{
			name: "special characters are literal",
			text: "Experience with C++ and CI/CD",
			want: []string{"c++", "ci/cd"},
		},
		{
			name: "phrases",
			text: "Machine Learning, A/B testing and Power BI dashboards.",
			want: []string{"a/b testing", "machine learning", "power bi"},
		},
		{
			name: "punctuation boundaries",
			text: "(python),sql;aws.",
			want: []string{"aws", "python", "sql"},
		},
		{
			name:    "no partial phrase",
			text:    "sql serverless",
			want:    []string{"sql"},
			exclude: []string{"sql server"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(tt.text)
			for _, w := range tt.want {
				if !got.Has(w) {
					t.Fatalf("expected %q in %v", w, got.Sorted())
				}
			}
			for _, e := range tt.exclude {
				if got.Has(e) {
					t.Fatalf("did not expect %q in %v", e, got.Sorted())
				}
			}
		})
	}
}

func TestExtractJobDescription(t *testing.T) {
	t.Parallel()

	description := `
We are looking for a Data Analyst with strong Python and SQL skills.
Experience with Tableau and AWS is a plus.
Strong communication skills required.
Knowledge of pandas and numpy is preferred.
`

	want := []string{"aws", "communication", "numpy", "pandas", "python", "sql", "tableau"}
	if got := Extract(description).Sorted(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected keywords: %v, want %v", got, want)
	}
}

func TestExtractSubsetOfVocabulary(t *testing.T) {
	t.Parallel()

	text := "Python, Rust, Haskell, Elixir, Kubernetes, cooking and gardening"
	for item := range Extract(text) {
		if !Default().Has(item) {
			t.Fatalf("extracted %q which is not in the vocabulary", item)
		}
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	text := "Go, Docker, Kubernetes and teamwork"
	first := Extract(text)
	second := Extract(text)
	if !first.Equal(second) {
		t.Fatalf("expected identical results, got %v and %v", first.Sorted(), second.Sorted())
	}
}

func TestExtractConcurrent(t *testing.T) {
	t.Parallel()

	vocabulary := NewVocabulary("go", "rust")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := vocabulary.Extract("Go and Rust"); got.Len() != 2 {
				t.Errorf("expected 2 keywords, got %v", got.Sorted())
			}
		}()
	}
	wg.Wait()
}

func TestNewVocabularyNormalizes(t *testing.T) {
	t.Parallel()

	vocabulary := NewVocabulary("  Go ", "go", "", "C++", "  ")
	want := []string{"c++", "go"}
	if got := vocabulary.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries: %v, want %v", got, want)
	}

	extended := vocabulary.Extend("Zig")
	if extended.Len() != 3 || !extended.Has("zig") {
		t.Fatalf("unexpected extended entries: %v", extended.Entries())
	}
	if vocabulary.Len() != 2 {
		t.Fatalf("extend must not modify the original vocabulary")
	}
}

func TestCustomVocabularyWithPatternCharacters(t *testing.T) {
	t.Parallel()

	vocabulary := NewVocabulary("node.js", "(weird)", "a+b", "[x]")

	got := vocabulary.Extract("Node.js, (weird) stuff, a+b and [x]")
	want := []string{"(weird)", "[x]", "a+b", "node.js"}
	if !reflect.DeepEqual(got.Sorted(), want) {
		t.Fatalf("unexpected keywords: %v, want %v", got.Sorted(), want)
	}

	if vocabulary.Extract("nodexjs").Has("node.js") {
		t.Fatalf("dot must be matched literally")
	}
}

func TestSetOperations(t *testing.T) {
	t.Parallel()

	a := NewSet("python", "sql", "excel")
	b := NewSet("python", "aws")

	if got := a.Intersect(b).Sorted(); !reflect.DeepEqual(got, []string{"python"}) {
		t.Fatalf("unexpected intersection: %v", got)
	}
	if got := a.Difference(b).Sorted(); !reflect.DeepEqual(got, []string{"excel", "sql"}) {
		t.Fatalf("unexpected difference: %v", got)
	}
	if got := a.Union(b).Len(); got != 4 {
		t.Fatalf("expected union of 4, got %d", got)
	}
}

func TestSetJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewSet("sql", "aws"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `["aws","sql"]` {
		t.Fatalf("unexpected json: %s", data)
	}

	var decoded Set
	if err := json.Unmarshal([]byte(`["go","go","rust"]`), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decoded.Equal(NewSet("go", "rust")) {
		t.Fatalf("unexpected decoded set: %v", decoded.Sorted())
	}

	var empty Set
	data, _ = json.Marshal(empty)
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %s", data)
	}
}
