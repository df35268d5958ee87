package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"hopdb/internal/config"
)

// HTTPClient is the fetcher shared by every network adapter.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient builds a client with the configured timeout, retry policy
// and user agent. Transport errors and 5xx responses are retried.
func NewHTTPClient(cfg config.HTTPConfig) *HTTPClient {
	client := resty.New().
		SetTimeout(cfg.Timeout()).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait()).
		AddRetryCondition(func(res *resty.Response, err error) bool {
			return err != nil || res.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.UserAgent != "" {
		client.SetHeader("user-agent", cfg.UserAgent)
	}
	return &HTTPClient{client: client}
}

// GetBytes fetches url with optional query parameters. Non-2xx responses are
// errors.
func (c *HTTPClient) GetBytes(ctx context.Context, url string, query map[string]string) ([]byte, string, error) {
	req := c.client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	res, err := req.Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", url, err)
	}
	if res.IsError() {
		return nil, "", fmt.Errorf("get %s: status %d", url, res.StatusCode())
	}
	return res.Body(), res.Header().Get("Content-Type"), nil
}

// GetDocument fetches an HTML page, decodes it to UTF-8 and parses it.
func (c *HTTPClient) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, contentType, err := c.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return ParseDocument(body, contentType)
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, query map[string]string, out any) error {
	body, _, err := c.GetBytes(ctx, url, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// ParseDocument converts data to UTF-8 according to contentType and the
// document's own declarations, then builds a goquery document.
func ParseDocument(data []byte, contentType string) (*goquery.Document, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		utf8data = data
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
}
