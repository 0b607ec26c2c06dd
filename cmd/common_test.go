package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/matching"
)

func TestNewVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *VocabularyConfig
		has     []string
		missing []string
	}{
		{name: "default", cfg: nil, has: []string{"sql", "power bi"}},
		{name: "extra extends default", cfg: &VocabularyConfig{Extra: []string{"dbt"}}, has: []string{"sql", "dbt"}},
		{name: "skills replace default", cfg: &VocabularyConfig{Skills: []string{"Go", "gRPC"}, Extra: []string{"dbt"}}, has: []string{"go", "grpc", "dbt"}, missing: []string{"sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vocabulary := newVocabulary(tt.cfg)
			for _, entry := range tt.has {
				if !vocabulary.Has(entry) {
					t.Fatalf("expected %q in vocabulary", entry)
				}
			}
			for _, entry := range tt.missing {
				if vocabulary.Has(entry) {
					t.Fatalf("did not expect %q in vocabulary", entry)
				}
			}
		})
	}
}

func TestFilteringConfig(t *testing.T) {
	config := &Config{ExcludeFile: "exclude.json"}
	config.Exclude = &struct{ Companies []string }{Companies: []string{"Acme"}}

	cfg := filteringConfig(config)
	if cfg.ExcludeFile != "exclude.json" || len(cfg.Companies) != 1 || cfg.WithoutKeywords {
		t.Fatalf("unexpected filtering config: %+v", cfg)
	}
}

func TestAppendToExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	jobs := &jsearch.Jobs{Items: []*jsearch.Job{{ID: "1"}, {ID: "2"}}}

	if err := appendToExcludeFile(zap.NewNop(), path, jobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := appendToExcludeFile(zap.NewNop(), path, &jsearch.Jobs{Items: []*jsearch.Job{{ID: "2"}, {ID: "3"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	excluded, err := jsearch.GetExcludedJobsFromFile(path)
	if err != nil {
		t.Fatalf("reading exclude file: %v", err)
	}
	if got := strings.Join(excluded.JobIDs(), ","); got != "1,2,3" {
		t.Fatalf("unexpected excluded ids: %s", got)
	}

	if err := appendToExcludeFile(zap.NewNop(), "", jobs); err != nil {
		t.Fatalf("unset exclude file must be a no-op, got %v", err)
	}
}

func TestPrintMatches(t *testing.T) {
	job := &jsearch.Job{ID: "1", Title: "Data Analyst", Company: "Acme", Keywords: keywords.NewSet("sql", "tableau")}
	matches := []*matching.Match{{
		Rank:   1,
		Job:    job,
		Result: matching.Score(keywords.NewSet("sql"), job.Keywords),
		Advice: &matching.Advice{Summary: "Decent fit", Suggestions: []string{"Mention Tableau"}},
	}}

	var buf bytes.Buffer
	printMatches(&buf, matches)

	out := buf.String()
	for _, want := range []string{"50.00%", matching.BandFair, "Data Analyst", "tableau", "Decent fit", "- Mention Tableau"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
