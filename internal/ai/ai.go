package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/logger"
	"github.com/spigell/ats-matcher/internal/matching"
)

// Reviewer produces advice on how well a résumé fits a scored job.
type Reviewer interface {
	Review(ctx context.Context, resumeText string, match *matching.Match) (*matching.Advice, error)
}

// ReviewTop asks the reviewer about the first top matches. A failed review is
// recorded on the match advice and does not stop the remaining reviews.
// It returns the number of successful reviews.
func ReviewTop(ctx context.Context, reviewer Reviewer, log *zap.Logger, resumeText string, matches *matching.Matches, top int) int {
	if reviewer == nil || matches == nil || top <= 0 {
		return 0
	}
	if log == nil {
		log = zap.NewNop()
	}

	reviewed := 0
	for _, match := range matches.Top(top) {
		if ctx.Err() != nil {
			match.Advice = &matching.Advice{Error: ctx.Err().Error()}
			continue
		}

		l := logger.WithJob(log, match.Job)
		advice, err := reviewer.Review(ctx, resumeText, match)
		if err != nil {
			l.Warn("review failed", zap.Error(err))
			match.Advice = &matching.Advice{Error: strings.TrimSpace(err.Error())}
			continue
		}

		l.Debug("review done", zap.Int("suggestions", len(advice.Suggestions)))
		match.Advice = advice
		reviewed++
	}

	return reviewed
}
