package matching

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/keywords"
)

// Advice is an optional review of a match produced by an AI provider.
type Advice struct {
	Summary     string   `json:"summary,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Raw         string   `json:"-"`
	Error       string   `json:"error,omitempty"`
}

type Match struct {
	Rank   int
	Job    *jsearch.Job
	Result Result
	Advice *Advice
}

type Matches struct {
	Items []*Match
}

type RankOptions struct {
	// MinScore drops matches scoring below it.
	MinScore float64
	// Workers bounds scoring parallelism. Defaults to GOMAXPROCS.
	Workers int
}

// Rank scores every job against the resume keywords and orders the matches
// by score, best first. Jobs with equal scores keep their original order.
func Rank(ctx context.Context, resume keywords.Set, jobs *jsearch.Jobs, opts RankOptions) (*Matches, error) {
	if jobs.Len() == 0 {
		return &Matches{}, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Match, jobs.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = &Match{Job: job, Result: Score(resume, job.Keywords)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]*Match, 0, len(results))
	for _, m := range results {
		if m.Result.Score < opts.MinScore {
			continue
		}
		items = append(items, m)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Result.Score > items[j].Result.Score
	})

	for i, m := range items {
		m.Rank = i + 1
	}

	return &Matches{Items: items}, nil
}

func (m *Matches) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}

// Top returns at most n best matches. Non-positive n returns all of them.
func (m *Matches) Top(n int) []*Match {
	if m == nil {
		return nil
	}
	if n <= 0 || n >= len(m.Items) {
		return m.Items
	}
	return m.Items[:n]
}

// Jobs returns the jobs behind the matches in rank order.
func (m *Matches) Jobs() *jsearch.Jobs {
	jobs := &jsearch.Jobs{}
	for _, match := range m.Items {
		jobs.Items = append(jobs.Items, match.Job)
	}
	return jobs
}
