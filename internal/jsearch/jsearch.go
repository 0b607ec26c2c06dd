package jsearch

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://jsearch.p.rapidapi.com"
	apiHost   = "jsearch.p.rapidapi.com"
	userAgent = "spigell/ats-matcher (spigelly@gmail.com)"
	// The API never returns more than 10 jobs per page.
	perPage = 10
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	Host       string
	// Limiter throttles page requests. RapidAPI free plans reject bursts.
	Limiter *rate.Limiter
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		ctx:    ctx,
		apiKey: apiKey,
		APIURL: apiURL,
		Host:   apiHost,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
		Limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (c *Client) Search(params *SearchParams) (*Jobs, error) {
	return c.search(params)
}
