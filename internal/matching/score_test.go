package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/ats-matcher/internal/keywords"
)

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		resume      keywords.Set
		job         keywords.Set
		wantScore   float64
		wantMatched []string
		wantMissing []string
	}{
		{
			name:        "perfect match",
			resume:      keywords.NewSet("python", "sql", "aws"),
			job:         keywords.NewSet("python", "sql", "aws"),
			wantScore:   100,
			wantMatched: []string{"aws", "python", "sql"},
			wantMissing: []string{},
		},
		{
			name:        "no overlap",
			resume:      keywords.NewSet("python", "sql"),
			job:         keywords.NewSet("java", "c++"),
			wantScore:   0,
			wantMatched: []string{},
			wantMissing: []string{"c++", "java"},
		},
		{
			name:        "partial",
			resume:      keywords.NewSet("python", "sql", "excel", "tableau"),
			job:         keywords.NewSet("python", "sql", "aws", "tableau", "communication"),
			wantScore:   60,
			wantMatched: []string{"python", "sql", "tableau"},
			wantMissing: []string{"aws", "communication"},
		},
		{
			name:        "rounded to two decimals",
			resume:      keywords.NewSet("go"),
			job:         keywords.NewSet("go", "rust", "docker"),
			wantScore:   33.33,
			wantMatched: []string{"go"},
			wantMissing: []string{"docker", "rust"},
		},
		{
			name:        "empty job",
			resume:      keywords.NewSet("python"),
			job:         keywords.NewSet(),
			wantScore:   0,
			wantMatched: []string{},
			wantMissing: []string{},
		},
		{
			name:        "nil sets",
			wantScore:   0,
			wantMatched: []string{},
			wantMissing: []string{},
		},
		{
			name:        "empty resume",
			job:         keywords.NewSet("sql"),
			wantScore:   0,
			wantMatched: []string{},
			wantMissing: []string{"sql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Score(tt.resume, tt.job)
			if got.Score != tt.wantScore {
				t.Fatalf("expected score %v, got %v", tt.wantScore, got.Score)
			}
			if !reflect.DeepEqual(got.Matched.Sorted(), tt.wantMatched) {
				t.Fatalf("unexpected matched: %v", got.Matched.Sorted())
			}
			if !reflect.DeepEqual(got.Missing.Sorted(), tt.wantMissing) {
				t.Fatalf("unexpected missing: %v", got.Missing.Sorted())
			}
		})
	}
}

func TestScoreInvariants(t *testing.T) {
	t.Parallel()

	pairs := [][2]keywords.Set{
		{keywords.NewSet("python", "sql"), keywords.NewSet("sql", "aws", "go")},
		{keywords.NewSet(), keywords.NewSet("sql")},
		{keywords.NewSet("a", "b", "c"), keywords.NewSet("a", "b", "c")},
		{keywords.NewSet("x"), keywords.NewSet("y")},
	}

	for _, pair := range pairs {
		resume, job := pair[0], pair[1]
		got := Score(resume, job)

		if !got.Matched.Union(got.Missing).Equal(job) {
			t.Fatalf("matched ∪ missing must equal job keywords")
		}
		if got.Matched.Intersect(got.Missing).Len() != 0 {
			t.Fatalf("matched and missing must be disjoint")
		}
		if got.Score < 0 || got.Score > 100 {
			t.Fatalf("score out of range: %v", got.Score)
		}
	}
}

func TestScoreIgnoresExtraResumeKeywords(t *testing.T) {
	t.Parallel()

	job := keywords.NewSet("python", "sql")
	base := Score(keywords.NewSet("python"), job)
	extra := Score(keywords.NewSet("python", "rust", "go", "docker"), job)

	if base.Score != extra.Score {
		t.Fatalf("extra resume keywords changed the score: %v vs %v", base.Score, extra.Score)
	}
}

func TestScoreDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	resume := keywords.NewSet("python")
	job := keywords.NewSet("python", "sql")
	Score(resume, job)

	if resume.Len() != 1 || job.Len() != 2 {
		t.Fatalf("inputs were mutated: %v, %v", resume.Sorted(), job.Sorted())
	}
}

func TestBand(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{
		100:   BandStrong,
		70:    BandStrong,
		69.99: BandFair,
		50:    BandFair,
		49.99: BandWeak,
		0:     BandWeak,
	}
	for score, want := range tests {
		if got := Band(score); got != want {
			t.Fatalf("Band(%v) = %q, want %q", score, got, want)
		}
	}
}
