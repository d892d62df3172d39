package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SupplierScout/internal/ports"
)

// navigationSelectors bound anchor scanning to the chrome of a page,
// where contact links actually live.
var navigationSelectors = []string{
	"header", ".header", "#header",
	"nav", ".nav", "#nav", ".navigation", "#navigation",
	"footer", ".footer", "#footer", ".site-footer",
	".menu", ".main-menu", ".primary-menu", ".secondary-menu", ".footer-menu",
}

// pathHints mark link paths likely to carry contact details.
var pathHints = []string{
	"contact", "contact-us", "about", "about-us",
	"faq", "help", "support", "customer-service",
	"store-locator", "locations", "find-us",
	"get-in-touch", "reach-us", "phone", "call-us",
}

const maxDiscoveredPages = 5

// Discoverer finds the same-domain auxiliary pages of a supplier site
// worth mining for contacts.
type Discoverer struct {
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.PageDiscoverer = (*Discoverer)(nil)

func NewDiscoverer(logger *slog.Logger) *Discoverer {
	return &Discoverer{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

// Discover returns the base URL followed by verified same-domain pages
// whose paths hint at contact information. Any failure degrades to the
// base URL alone.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) []string {
	pages := []string{baseURL}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return pages
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return pages
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.debug("discovery fetch failed", "url", baseURL, "error", err)
		return pages
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pages
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return pages
	}

	seen := map[string]bool{baseURL: true}
	for _, candidate := range d.collectCandidates(doc, base) {
		if len(pages) >= maxDiscoveredPages {
			break
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		if d.verify(ctx, candidate) {
			pages = append(pages, candidate)
		}
	}
	return pages
}

// collectCandidates walks navigation areas and keeps same-domain links
// whose paths match a hint. A link counts once no matter how many hints
// its path contains.
func (d *Discoverer) collectCandidates(doc *goquery.Document, base *url.URL) []string {
	var candidates []string
	seen := map[string]bool{}

	scope := strings.Join(navigationSelectors, ", ")
	doc.Find(scope).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""

		// Hints can live in the href itself or in the anchor's visible
		// text ("Contact Us" pointing at an opaque path).
		haystack := strings.ToLower(href) + " " + strings.ToLower(a.Text())
		for _, hint := range pathHints {
			if !strings.Contains(haystack, hint) {
				continue
			}
			link := resolved.String()
			if !seen[link] {
				seen[link] = true
				candidates = append(candidates, link)
			}
			break
		}
	})
	return candidates
}

// verify confirms a discovered link actually resolves before the
// pipeline spends a full fetch on it.
func (d *Discoverer) verify(ctx context.Context, pageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}

func (d *Discoverer) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}
