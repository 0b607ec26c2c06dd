package matching

import (
	"math"

	"github.com/spigell/ats-matcher/internal/keywords"
)

// Result describes how well a resume covers the keywords of a job.
type Result struct {
	// Score is the covered share of the job keywords in percent, rounded to 2 decimals.
	Score   float64      `json:"match_score"`
	Matched keywords.Set `json:"matched_keywords"`
	Missing keywords.Set `json:"missing_keywords"`
}

// Score compares resume keywords against job keywords.
// A job without keywords scores 0 with empty matched and missing sets.
// Extra resume keywords never change the score.
func Score(resume, job keywords.Set) Result {
	if job.Len() == 0 {
		return Result{Score: 0, Matched: keywords.NewSet(), Missing: keywords.NewSet()}
	}

	matched := resume.Intersect(job)
	missing := job.Difference(resume)

	return Result{
		Score:   round2(100 * float64(matched.Len()) / float64(job.Len())),
		Matched: matched,
		Missing: missing,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

const (
	BandStrong = "strong"
	BandFair   = "fair"
	BandWeak   = "weak"
)

// Band buckets a score for display.
func Band(score float64) string {
	switch {
	case score >= 70:
		return BandStrong
	case score >= 50:
		return BandFair
	default:
		return BandWeak
	}
}
