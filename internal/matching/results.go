package matching

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/utils"
)

// DescriptionPreviewLength limits descriptions stored in results files.
const DescriptionPreviewLength = 500

// record is the on-disk representation of a match.
type record struct {
	Rank        int          `json:"rank"`
	JobID       string       `json:"job_id"`
	Title       string       `json:"job_title"`
	Company     string       `json:"company"`
	Location    string       `json:"location"`
	Score       float64      `json:"match_score"`
	Matched     keywords.Set `json:"matched_keywords"`
	Missing     keywords.Set `json:"missing_keywords"`
	URL         string       `json:"job_url"`
	Description string       `json:"description"`
	Advice      *Advice      `json:"advice,omitempty"`
}

func (m *Matches) records() []record {
	records := make([]record, 0, m.Len())
	for _, match := range m.Items {
		job := match.Job
		if job == nil {
			job = &jsearch.Job{}
		}
		records = append(records, record{
			Rank:        match.Rank,
			JobID:       job.ID,
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			Score:       match.Result.Score,
			Matched:     match.Result.Matched,
			Missing:     match.Result.Missing,
			URL:         job.URL,
			Description: utils.TruncateRunes(job.Description, DescriptionPreviewLength),
			Advice:      match.Advice,
		})
	}
	return records
}

// MarshalJSON encodes the matches as a ranked list.
func (m *Matches) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.records())
}

func (m *Matches) UnmarshalJSON(data []byte) error {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	m.Items = make([]*Match, 0, len(records))
	for _, r := range records {
		m.Items = append(m.Items, &Match{
			Rank: r.Rank,
			Job: &jsearch.Job{
				ID:          r.JobID,
				Title:       r.Title,
				Company:     r.Company,
				Location:    r.Location,
				Description: r.Description,
				URL:         r.URL,
				Keywords:    r.Matched.Union(r.Missing),
			},
			Result: Result{Score: r.Score, Matched: orEmpty(r.Matched), Missing: orEmpty(r.Missing)},
			Advice: r.Advice,
		})
	}
	return nil
}

func orEmpty(s keywords.Set) keywords.Set {
	if s == nil {
		return keywords.NewSet()
	}
	return s
}

// ToFile writes the matches to path as indented JSON.
func (m *Matches) ToFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock results file: %w", err)
	}
	defer lock.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// LoadMatchesFromFile reads a results file. A missing or blank file yields no matches.
func LoadMatchesFromFile(path string) (*Matches, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Matches{}, nil
	}

	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock results file: %w", err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Matches{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Matches{}, nil
	}

	var matches Matches
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("decode results file %q: %w", path, err)
	}
	return &matches, nil
}

func (m *Matches) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return file.Name(), nil
}
