package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SupplierScout/internal/ports"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxPageChars     = 5000
	fetchTimeout     = 10 * time.Second
)

// Fetcher downloads pages and reduces them to plain text suitable for
// contact extraction and classification. It never reports errors to
// callers; a page that cannot be read is an empty string.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.PageFetcher = (*Fetcher)(nil)

func NewFetcher(logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
	}
}

// Fetch returns the visible text of a page, scripts and styles removed,
// whitespace collapsed, capped at a size that keeps downstream LLM
// calls cheap.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		f.debug("bad page url", "url", pageURL, "error", err)
		return ""
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.debug("page fetch failed", "url", pageURL, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.debug("page fetch non-200", "url", pageURL, "status", resp.StatusCode)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.debug("page parse failed", "url", pageURL, "error", err)
		return ""
	}

	doc.Find("script, style").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if runes := []rune(text); len(runes) > maxPageChars {
		text = string(runes[:maxPageChars])
	}
	return text
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
