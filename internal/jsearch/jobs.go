package jsearch

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spigell/ats-matcher/internal/keywords"
)

const (
	JobIDField      = "ID"
	JobCompanyField = "Company"
)

type Jobs struct {
	Items []*Job
}

type Job struct {
	ID          string       `json:"job_id"`
	Title       string       `json:"job_title"`
	Company     string       `json:"company"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	URL         string       `json:"job_url"`
	PostedAt    string       `json:"posted_date,omitempty"`
	Keywords    keywords.Set `json:"keywords"`
}

// ExtractKeywords fills the keyword set of every job from its description.
func (j *Jobs) ExtractKeywords(vocabulary *keywords.Vocabulary) {
	for _, job := range j.Items {
		job.Keywords = vocabulary.Extract(job.Description)
	}
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (j *Jobs) ToExcluded() *ExcludedJobs {
	excluded := &ExcludedJobs{}
	for _, job := range j.Items {
		excluded.Items = append(excluded.Items, &ExcludedJob{
			ID:         job.ID,
			URL:        job.URL,
			Company:    job.Company,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

func (job *Job) GetStringField(name string) string {
	switch name {
	case JobIDField:
		return job.ID
	case JobCompanyField:
		return job.Company
	default:
		return ""
	}
}

// ReportByCompany groups the jobs by company name.
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		key := job.Company
		if key == "" {
			key = "unknown"
		}
		report[key] = append(report[key], map[string]string{
			"title":    job.Title,
			"url":      job.URL,
			"location": job.Location,
			"keywords": strings.Join(job.Keywords.Sorted(), ", "),
		})
	}
	return report
}

func (j *Jobs) Len() int {
	if j == nil {
		return 0
	}
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Exclude removes every job whose field equals one of the targets and returns the removed IDs.
// Comparison is case-insensitive. Order of the remaining jobs is preserved.
func (j *Jobs) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if target = strings.ToLower(strings.TrimSpace(target)); target != "" {
			drop[target] = struct{}{}
		}
	}

	var excluded []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if _, ok := drop[strings.ToLower(job.GetStringField(name))]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	j.Items = kept

	return excluded
}

// Keep retains only the jobs for which keep returns true and returns the removed IDs.
func (j *Jobs) Keep(keep func(*Job) bool) []string {
	var removed []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if keep(job) {
			kept = append(kept, job)
			continue
		}
		removed = append(removed, job.ID)
	}
	j.Items = kept

	return removed
}
