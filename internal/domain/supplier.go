package domain

import "time"

// Strategy names a query-generation mode controlling phrase templates.
type Strategy string

const (
	StrategyDirect  Strategy = "direct"
	StrategyCatalog Strategy = "catalog"
	StrategyTrusted Strategy = "trusted"
	StrategyLocal   Strategy = "local"
)

// ExtractionMode selects how contact data is obtained for a search hit.
type ExtractionMode string

const (
	// ModeQualify fetches each candidate page, asks the classifier whether
	// the business is a direct seller, then extracts contacts across every
	// discovered page of qualified sites.
	ModeQualify ExtractionMode = "qualify"
	// ModeSnippet skips fetching entirely and extracts contacts straight
	// from search-result snippets.
	ModeSnippet ExtractionMode = "snippet"
)

// SearchRequest is the normalized inbound request; immutable once created.
type SearchRequest struct {
	Query        string
	Amount       string
	DeliveryDate string
	Location     string
	Strategy     Strategy
	Mode         ExtractionMode
	MaxResults   int
}

// LocationProfile is derived deterministically from a location string.
type LocationProfile struct {
	CountryCode     string
	Language        string
	ExtraLanguages  []string
	CountryName     string
	LocalSources    []string
	TrustedSources  []string
	IsRegionalGroup bool
}

// SearchLanguages returns primary + additional languages, deduplicated,
// primary first.
func (p LocationProfile) SearchLanguages() []string {
	langs := make([]string, 0, 1+len(p.ExtraLanguages))
	seen := map[string]struct{}{}
	for _, lang := range append([]string{p.Language}, p.ExtraLanguages...) {
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	return langs
}

// CandidateQuery is one generated query string tagged with its origin.
type CandidateQuery struct {
	Text     string
	Strategy Strategy
	Language string
}

// RawSearchHit is one organic result from the search provider.
type RawSearchHit struct {
	Title   string
	URL     string
	Snippet string
	Source  string
}

// PageAnalysis combines the classifier verdict and extracted contacts for
// one URL.
type PageAnalysis struct {
	Qualifies bool
	Reason    string
	Signals   map[string]bool
	Phones    []string
	Emails    []string
}

// SupplierCandidate is the terminal unit returned by the pipeline.
type SupplierCandidate struct {
	Name         string
	Website      string
	ContactInfo  string
	Phones       []string
	Emails       []string
	SupplierType string
	Location     string
	Source       string
}

// Key is the deduplication key: website when present, otherwise name.
func (c SupplierCandidate) Key() string {
	if c.Website != "" {
		return c.Website
	}
	return c.Name
}

// HasContact reports whether at least one phone or email was found.
func (c SupplierCandidate) HasContact() bool {
	return len(c.Phones) > 0 || len(c.Emails) > 0
}

// Rejection records why a hit contributed no candidate; diagnostics only.
type Rejection struct {
	URL    string
	Reason string
}

// SearchReport is the pipeline response: candidates plus run metadata.
type SearchReport struct {
	SessionID   string
	Suppliers   []SupplierCandidate
	Rejections  []Rejection
	QueriesUsed []string
	Location    LocationProfile
	Elapsed     time.Duration
	StartedAt   time.Time
}
