package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/jsearch"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes jobs listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, jobs *jsearch.Jobs) (*jsearch.Jobs, Step, error) {
	initial := jobs.Len()
	if f.path == "" {
		return jobs, Step{Initial: initial, Dropped: 0, Left: jobs.Len()}, nil
	}

	excluded, err := jsearch.GetExcludedJobsFromFile(f.path)
	if err != nil {
		return jobs, Step{}, fmt.Errorf("getting excluded jobs from file: %w", err)
	}

	removed := jobs.Exclude(jsearch.JobIDField, excluded.JobIDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding jobs based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(removed), Left: jobs.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
