package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ats-matcher/internal/filtering"
	"github.com/spigell/ats-matcher/internal/jsearch"
	"github.com/spigell/ats-matcher/internal/keywords"
	"github.com/spigell/ats-matcher/internal/matching"
	"github.com/spigell/ats-matcher/internal/resume"
	"github.com/spigell/ats-matcher/internal/utils"
)

const (
	TaskFetchJobs          = "fetch_jobs"
	TaskExtractJobKeywords = "extract_job_keywords"
	TaskProcessResume      = "process_resume"
	TaskCalculateMatches   = "calculate_matches"

	DefaultRetries    = 1
	DefaultRetryDelay = 5 * time.Minute
)

var (
	ErrNoJobs      = errors.New("no jobs")
	ErrEmptyResume = errors.New("could not extract text from resume")
)

var wait = utils.WaitFor

// Fetcher searches jobs in the remote API.
type Fetcher interface {
	Search(params *jsearch.SearchParams) (*jsearch.Jobs, error)
}

// JobStore persists fetched jobs between tasks.
type JobStore interface {
	SaveJobs(ctx context.Context, jobs *jsearch.Jobs) error
	LoadJobs(ctx context.Context) (*jsearch.Jobs, error)
}

// ResumeLoader reads a resume and extracts its keywords.
type ResumeLoader func(path string, vocabulary *keywords.Vocabulary) (*resume.Resume, error)

type Config struct {
	Search      jsearch.SearchParams
	ResumePath  string
	ResultsFile string
	Vocabulary  *keywords.Vocabulary
	Rank        matching.RankOptions
	// Filters is applied to stored jobs before ranking when set.
	Filters *filtering.Config
	// Retries is the number of extra attempts per task.
	Retries    int
	RetryDelay time.Duration
}

// State carries the results of finished tasks to the following ones.
type State struct {
	Fetched   int
	Extracted int
	Resume    *resume.Resume
	Matches   *matching.Matches
}

type Task struct {
	Name string
	Run  func(ctx context.Context, state *State) error
}

type Pipeline struct {
	cfg        Config
	logger     *zap.Logger
	fetcher    Fetcher
	store      JobStore
	loadResume ResumeLoader
	filters    []filtering.Filter
	tasks      []Task
}

// New builds the pipeline with the fetch, extract, resume and match tasks.
func New(cfg Config, logger *zap.Logger, fetcher Fetcher, store JobStore, loadResume ResumeLoader) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Vocabulary == nil {
		cfg.Vocabulary = keywords.Default()
	}
	if loadResume == nil {
		loadResume = resume.Load
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	p := &Pipeline{
		cfg:        cfg,
		logger:     logger,
		fetcher:    fetcher,
		store:      store,
		loadResume: loadResume,
		filters:    filtering.Default(),
	}
	p.tasks = []Task{
		{Name: TaskFetchJobs, Run: p.fetchJobs},
		{Name: TaskExtractJobKeywords, Run: p.extractJobKeywords},
		{Name: TaskProcessResume, Run: p.processResume},
		{Name: TaskCalculateMatches, Run: p.calculateMatches},
	}
	return p
}

func (p *Pipeline) Tasks() []Task {
	return p.tasks
}

// Run executes the tasks in order and stops at the first task that fails after its retries.
func (p *Pipeline) Run(ctx context.Context) (*State, error) {
	state := &State{}
	for _, task := range p.tasks {
		if err := p.runTask(ctx, task, state); err != nil {
			return state, fmt.Errorf("%s: %w", task.Name, err)
		}
	}
	return state, nil
}

func (p *Pipeline) runTask(ctx context.Context, task Task, state *State) error {
	logger := p.logger.With(zap.String("task", task.Name))

	var err error
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		if attempt > 0 {
			logger.Warn("task failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", p.cfg.RetryDelay),
				zap.Error(err),
			)
			if werr := wait(ctx, p.cfg.RetryDelay); werr != nil {
				return werr
			}
		}

		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		start := time.Now()
		err = task.Run(ctx, state)
		if err == nil {
			logger.Info("task done", zap.Duration("took", time.Since(start)))
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	return err
}

func (p *Pipeline) fetchJobs(ctx context.Context, state *State) error {
	if p.fetcher == nil {
		return errors.New("job fetcher is not configured")
	}

	params := p.cfg.Search
	p.logger.Info("fetching jobs",
		zap.String("query", params.Query),
		zap.String("location", params.Location),
		zap.Int("num_jobs", params.NumJobs),
	)

	jobs, err := p.fetcher.Search(&params)
	if err != nil {
		return err
	}
	if jobs.Len() == 0 {
		return fmt.Errorf("%w fetched from api", ErrNoJobs)
	}

	if err := p.store.SaveJobs(ctx, jobs); err != nil {
		return fmt.Errorf("saving jobs: %w", err)
	}

	state.Fetched = jobs.Len()
	p.logger.Info("fetched jobs", zap.Int("count", state.Fetched))
	return nil
}

func (p *Pipeline) extractJobKeywords(ctx context.Context, state *State) error {
	jobs, err := p.loadStoredJobs(ctx)
	if err != nil {
		return err
	}

	jobs.ExtractKeywords(p.cfg.Vocabulary)

	if err := p.store.SaveJobs(ctx, jobs); err != nil {
		return fmt.Errorf("saving jobs: %w", err)
	}

	state.Extracted = jobs.Len()
	p.logger.Info("extracted keywords", zap.Int("jobs", state.Extracted))
	return nil
}

func (p *Pipeline) processResume(_ context.Context, state *State) error {
	r, err := p.loadResume(p.cfg.ResumePath, p.cfg.Vocabulary)
	if err != nil {
		return fmt.Errorf("loading resume: %w", err)
	}
	if r == nil || r.Text == "" {
		return ErrEmptyResume
	}

	state.Resume = r
	p.logger.Info("extracted resume keywords",
		zap.Int("count", r.Keywords.Len()),
		zap.Strings("keywords", r.Keywords.Sorted()),
	)
	return nil
}

func (p *Pipeline) calculateMatches(ctx context.Context, state *State) error {
	if state.Resume == nil {
		return fmt.Errorf("%s has not run", TaskProcessResume)
	}

	jobs, err := p.loadStoredJobs(ctx)
	if err != nil {
		return err
	}

	if p.cfg.Filters != nil {
		jobs, err = filtering.Run(ctx, p.cfg.Filters, filtering.Deps{Logger: p.logger}, p.filters, jobs)
		if err != nil {
			return fmt.Errorf("filtering jobs: %w", err)
		}
	}

	matches, err := matching.Rank(ctx, state.Resume.Keywords, jobs, p.cfg.Rank)
	if err != nil {
		return err
	}
	state.Matches = matches

	if p.cfg.ResultsFile != "" {
		if err := matches.ToFile(p.cfg.ResultsFile); err != nil {
			return fmt.Errorf("saving results: %w", err)
		}
	}

	fields := []zap.Field{zap.Int("count", matches.Len())}
	if top := matches.Top(1); len(top) == 1 {
		fields = append(fields,
			zap.String("top_job", top[0].Job.Title),
			zap.Float64("top_score", top[0].Result.Score),
		)
	}
	p.logger.Info("calculated matches", fields...)
	return nil
}

func (p *Pipeline) loadStoredJobs(ctx context.Context) (*jsearch.Jobs, error) {
	jobs, err := p.store.LoadJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}
	if jobs.Len() == 0 {
		return nil, fmt.Errorf("%w found in store", ErrNoJobs)
	}
	return jobs, nil
}
