package jsearch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	SearchPath = "/search"

	DefaultQuery    = "Data Analyst"
	DefaultLocation = "Remote"
	DefaultNumJobs  = 20
)

type SearchParams struct {
	Query    string `mapstructure:"query"`
	Location string `mapstructure:"location"`
	NumJobs  int    `mapstructure:"num-jobs"`
}

// apiJob mirrors the fields we need from a JSearch result.
type apiJob struct {
	ID          string `json:"job_id"`
	Title       string `json:"job_title"`
	Employer    string `json:"employer_name"`
	City        string `json:"job_city"`
	Country     string `json:"job_country"`
	Description string `json:"job_description"`
	ApplyLink   string `json:"job_apply_link"`
	PostedAt    string `json:"job_posted_at_datetime_utc"`
}

func (p *SearchParams) withDefaults() SearchParams {
	out := SearchParams{Query: DefaultQuery, Location: DefaultLocation, NumJobs: DefaultNumJobs}
	if p == nil {
		return out
	}
	if q := strings.TrimSpace(p.Query); q != "" {
		out.Query = q
	}
	if l := strings.TrimSpace(p.Location); l != "" {
		out.Location = l
	}
	if p.NumJobs > 0 {
		out.NumJobs = p.NumJobs
	}
	return out
}

// Pages returns how many result pages are needed for the requested number of jobs.
func (p *SearchParams) Pages() int {
	params := p.withDefaults()
	return (params.NumJobs + perPage - 1) / perPage
}

func (c *Client) search(p *SearchParams) (*Jobs, error) {
	params := p.withDefaults()
	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	var jobs []*Job
	for page := 1; page <= params.Pages(); page++ {
		c.logger.Info("fetching page", zap.Int("page", page))

		items, err := c.getPage(apiURLSearch, buildParams(params, page))
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("fetch page %d: %w", page, err)
			}
			// Keep what we already have; later pages are a bonus.
			c.logger.Error("api request failed", zap.Int("page", page), zap.Error(err))
			break
		}

		if len(items) == 0 {
			c.logger.Warn("no jobs found on page", zap.Int("page", page))
			break
		}

		decoded, err := decodeJobs(items)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("decode page %d: %w", page, err)
			}
			c.logger.Error("error processing response", zap.Int("page", page), zap.Error(err))
			break
		}

		jobs = append(jobs, decoded...)
		c.logger.Info("fetched jobs from page", zap.Int("page", page), zap.Int("count", len(decoded)))
	}

	if len(jobs) > params.NumJobs {
		jobs = jobs[:params.NumJobs]
	}

	c.logger.Info("total jobs fetched", zap.Int("count", len(jobs)))

	return &Jobs{Items: jobs}, nil
}

func decodeJobs(items []Item) ([]*Job, error) {
	var raw []*apiJob

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &raw,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	jobs := make([]*Job, 0, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		jobs = append(jobs, &Job{
			ID:          r.ID,
			Title:       r.Title,
			Company:     r.Employer,
			Location:    formatLocation(r.City, r.Country),
			Description: r.Description,
			URL:         r.ApplyLink,
			PostedAt:    r.PostedAt,
		})
	}

	return jobs, nil
}

func formatLocation(city, country string) string {
	return strings.Trim(fmt.Sprintf("%s, %s", city, country), ", ")
}

func buildParams(params SearchParams, page int) url.Values {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("%s in %s", params.Query, params.Location))
	q.Set("page", strconv.Itoa(page))
	q.Set("num_pages", "1")

	return q
}
