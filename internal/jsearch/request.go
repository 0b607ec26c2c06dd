package jsearch

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// PageResponse is the envelope of a single search page.
type PageResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Data      []Item `json:"data"`
}

type Item interface{}

// getPage makes GET request to JSearch API and returns items of a single page.
func (c *Client) getPage(url string, q url.Values) ([]Item, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(c.ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.URL.RawQuery = q.Encode()

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}

	response, err := c.parsePageResponse(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from JSearch",
		zap.String("request_id", response.RequestID),
		zap.Int("items", len(response.Data)),
	)

	return response.Data, nil
}

func (c *Client) parsePageResponse(resp *http.Response) (*PageResponse, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response *PageResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if response == nil {
		return &PageResponse{}, nil
	}

	return response, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.Host)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
