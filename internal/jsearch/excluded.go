package jsearch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

type ExcludedJobs struct {
	Items []*ExcludedJob
}

type ExcludedJob struct {
	ID         string
	URL        string
	Company    string
	ExcludedAt time.Time
}

// GetExcludedJobsFromFile reads the exclude file. A missing or empty file is an empty list.
func GetExcludedJobsFromFile(path string) (*ExcludedJobs, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedJobs{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedJobs{}, nil
	}

	var excluded ExcludedJobs
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decode exclude file %q: %w", path, err)
	}
	return &excluded, nil
}

// Append adds the jobs from s that are not excluded yet.
func (e *ExcludedJobs) Append(s *ExcludedJobs) {
	known := make(map[string]struct{}, len(e.Items))
	for _, job := range e.Items {
		known[job.ID] = struct{}{}
	}
	for _, job := range s.Items {
		if _, ok := known[job.ID]; ok {
			continue
		}
		known[job.ID] = struct{}{}
		e.Items = append(e.Items, job)
	}
}

func (e *ExcludedJobs) JobIDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, job := range e.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

// ToFile overwrites path with the list. Concurrent writers are serialized
// with an advisory lock next to the file.
func (e *ExcludedJobs) ToFile(path string) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock exclude file: %w", err)
	}
	defer lock.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
