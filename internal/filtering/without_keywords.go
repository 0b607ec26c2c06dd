package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/jsearch"
)

const notRequestedMsg = "not requested in config"

// withoutKeywordsFilter drops jobs with an empty keyword set. They always score 0.
type withoutKeywordsFilter struct {
	disabled bool
	reason   string
}

func NewWithoutKeywords() Filter {
	return &withoutKeywordsFilter{}
}

func (f *withoutKeywordsFilter) Name() string { return "without_keywords" }

func (f *withoutKeywordsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *withoutKeywordsFilter) IsEnabled() bool { return !f.disabled }

func (f *withoutKeywordsFilter) Validate(cfg *Config) error {
	if cfg == nil || !cfg.WithoutKeywords {
		f.Disable(notRequestedMsg)
	}
	return nil
}

func (f *withoutKeywordsFilter) Apply(_ context.Context, deps Deps, jobs *jsearch.Jobs) (*jsearch.Jobs, Step, error) {
	initial := jobs.Len()
	if f.disabled {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	removed := jobs.Keep(func(job *jsearch.Job) bool {
		return job.Keywords.Len() > 0
	})
	if len(removed) > 0 {
		deps.Logger.Info("excluding jobs without keywords",
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(removed), Left: jobs.Len()}, nil
}

func (f *withoutKeywordsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
