package ports

import (
	"context"

	"SupplierScout/internal/domain"
)

// SearchProvider executes one query against the web-search backend.
// Implementations fail soft: transport or provider errors surface as an
// empty hit list, never as an error that aborts the batch.
type SearchProvider interface {
	Search(ctx context.Context, query, countryCode, language string, maxResults int) []domain.RawSearchHit
	// SearchSuppliers enhances the query toward contact pages and local
	// marketplaces before searching, with one relaxed fallback when the
	// enhanced query finds nothing.
	SearchSuppliers(ctx context.Context, query string, profile domain.LocationProfile, maxResults int) []domain.RawSearchHit
	SearchMultilingual(ctx context.Context, query string, profile domain.LocationProfile, maxResults int) [][]domain.RawSearchHit
}

// PageFetcher retrieves the sanitized text content of a URL. On any
// failure it returns empty text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// PageDiscoverer lists the base URL plus same-domain auxiliary pages
// (contact/about/support). Discovery degrades to the base URL alone.
type PageDiscoverer interface {
	Discover(ctx context.Context, baseURL string) []string
}

// Classifier judges from page text whether a business is a direct seller
// or contactable supplier. A failed or malformed call yields a
// non-qualifying analysis with the error captured as the reason.
type Classifier interface {
	Classify(ctx context.Context, pageText string) domain.PageAnalysis
}

// SessionRepository persists finished search sessions for the caller.
type SessionRepository interface {
	SaveSession(ctx context.Context, req domain.SearchRequest, report domain.SearchReport) error
}
