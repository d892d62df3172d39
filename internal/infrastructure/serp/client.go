package serp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"SupplierScout/internal/domain"
	"SupplierScout/internal/ports"
)

const (
	defaultBaseURL    = "https://serpapi.com/search"
	defaultEngine     = "google"
	defaultMaxResults = 10
	maxResponseBytes  = 2 << 20
)

// Client talks to a SerpAPI-compatible search backend. Every public
// method fails soft: transport and provider errors produce empty result
// sets so one bad query never aborts a batch.
type Client struct {
	apiKey     string
	engine     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ ports.SearchProvider = (*Client)(nil)

// Options tunes the client beyond its defaults.
type Options struct {
	Engine     string
	BaseURL    string
	MaxResults int
	// QPS bounds outbound calls; every query costs API credit. Zero
	// disables the limiter.
	QPS float64
}

// NewClient builds a search client with cost-control rate limiting.
func NewClient(apiKey string, opts Options, logger *slog.Logger) *Client {
	if opts.Engine == "" {
		opts.Engine = defaultEngine
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}

	var limiter *rate.Limiter
	if opts.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.QPS), 1)
	}

	return &Client{
		apiKey:     apiKey,
		engine:     opts.Engine,
		baseURL:    opts.BaseURL,
		maxResults: opts.MaxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		logger:     logger,
	}
}

// Search executes one query. Transport or provider failure yields an
// empty list.
func (c *Client) Search(ctx context.Context, query, countryCode, language string, maxResults int) []domain.RawSearchHit {
	if maxResults <= 0 || maxResults > c.maxResults {
		maxResults = c.maxResults
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.debug("rate limiter interrupted", "error", err)
			return nil
		}
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("engine", c.engine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))
	if countryCode != "" {
		params.Set("gl", countryCode)
	}
	if language != "" {
		params.Set("hl", language)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		c.debug("search request failed", "query", query, "error", err)
		return nil
	}

	hits := decodeHits(body, maxResults)
	c.debug("search done", "query", query, "hits", len(hits))
	return hits
}

// SearchSuppliers runs a supplier-targeted search: the query is enhanced
// with contact-page keywords for the search language and restricted to
// local marketplace domains when the region has them. If the enhanced
// query finds nothing, exactly one relaxed fallback call runs with the
// plain query before giving up.
func (c *Client) SearchSuppliers(ctx context.Context, query string, profile domain.LocationProfile, maxResults int) []domain.RawSearchHit {
	enhanced := EnhanceForContactPages(query, profile.Language)
	if len(profile.LocalSources) > 0 {
		enhanced = applySiteFilter(enhanced, profile.LocalSources[:min(3, len(profile.LocalSources))])
	}

	hits := c.Search(ctx, enhanced, profile.CountryCode, profile.Language, maxResults)
	if len(hits) > 0 {
		return hits
	}

	c.debug("enhanced query empty, relaxing", "query", query)
	return c.Search(ctx, query, profile.CountryCode, profile.Language, c.maxResults)
}

// SearchMultilingual issues one search per resolved language and returns
// one result set per language, continuing past per-language failures.
func (c *Client) SearchMultilingual(ctx context.Context, query string, profile domain.LocationProfile, maxResults int) [][]domain.RawSearchHit {
	languages := profile.SearchLanguages()
	results := make([][]domain.RawSearchHit, 0, len(languages))
	for _, language := range languages {
		results = append(results, c.Search(ctx, query, profile.CountryCode, language, maxResults))
	}
	return results
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
