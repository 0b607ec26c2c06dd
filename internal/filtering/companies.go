package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/jsearch"
)

type companiesFilter struct {
	companies []string
}

// NewCompanies creates a filter that removes jobs of companies configured in the config.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg != nil {
		f.companies = append(f.companies, cfg.Companies...)
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, jobs *jsearch.Jobs) (*jsearch.Jobs, Step, error) {
	initial := jobs.Len()
	if len(f.companies) == 0 {
		return jobs, Step{Initial: initial, Dropped: 0, Left: jobs.Len()}, nil
	}

	excluded := jobs.Exclude(jsearch.JobCompanyField, f.companies)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
