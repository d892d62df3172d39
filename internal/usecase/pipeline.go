package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"SupplierScout/internal/aggregate"
	"SupplierScout/internal/domain"
	"SupplierScout/internal/extract"
	"SupplierScout/internal/location"
	"SupplierScout/internal/ports"
	"SupplierScout/internal/query"
)

// ErrEmptyQuery rejects requests without a product description.
var ErrEmptyQuery = errors.New("search query must not be empty")

const (
	defaultMaxQueries     = 3
	defaultFanoutCap      = 10
	defaultOverallTimeout = 120 * time.Second
	defaultMaxResults     = 10
)

// PipelineOptions tunes orchestration limits. Zero values pick the
// defaults.
type PipelineOptions struct {
	// MaxQueries caps how many generated queries are actually sent to
	// the provider; each one costs API credit.
	MaxQueries int
	// FanoutCap bounds concurrent per-hit analysis.
	FanoutCap int
	// OverallTimeout bounds a whole session; hits still unprocessed at
	// the deadline are reported as rejections, not dropped silently.
	OverallTimeout time.Duration
	// MaxResultsPerQuery is passed through to the search provider.
	MaxResultsPerQuery int
	// Multilingual repeats the first query in every language of the
	// resolved region.
	Multilingual bool
}

func (o PipelineOptions) withDefaults() PipelineOptions {
	if o.MaxQueries <= 0 {
		o.MaxQueries = defaultMaxQueries
	}
	if o.FanoutCap <= 0 {
		o.FanoutCap = defaultFanoutCap
	}
	if o.OverallTimeout <= 0 {
		o.OverallTimeout = defaultOverallTimeout
	}
	if o.MaxResultsPerQuery <= 0 {
		o.MaxResultsPerQuery = defaultMaxResults
	}
	return o
}

// PipelineDeps wires all driven adapters into the search pipeline.
// Session persistence stays outside: the pipeline returns records and
// the caller decides what to keep.
type PipelineDeps struct {
	Search     ports.SearchProvider
	Fetcher    ports.PageFetcher
	Discoverer ports.PageDiscoverer
	Classifier ports.Classifier
	Generator  *query.Generator
	Logger     *slog.Logger
	Options    PipelineOptions
}

// Pipeline orchestrates one supplier search session: query generation,
// search execution, per-hit analysis fan-out, contact extraction and
// deduplication.
type Pipeline struct {
	search     ports.SearchProvider
	fetcher    ports.PageFetcher
	discoverer ports.PageDiscoverer
	classifier ports.Classifier
	generator  *query.Generator
	logger     *slog.Logger
	opts       PipelineOptions
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	gen := deps.Generator
	if gen == nil {
		gen = query.NewGenerator(nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		search:     deps.Search,
		fetcher:    deps.Fetcher,
		discoverer: deps.Discoverer,
		classifier: deps.Classifier,
		generator:  gen,
		logger:     logger,
		opts:       deps.Options.withDefaults(),
	}
}

// Run executes one search session. Per-hit failures become rejection
// diagnostics, and hitting the overall deadline returns whatever was
// collected so far; the only hard error is an invalid request.
func (p *Pipeline) Run(ctx context.Context, req domain.SearchRequest) (domain.SearchReport, error) {
	if strings.TrimSpace(req.Query) == "" {
		return domain.SearchReport{}, ErrEmptyQuery
	}
	if req.Mode == "" {
		req.Mode = domain.ModeQualify
	}

	started := time.Now()
	profile := location.Resolve(req.Location)

	ctx, cancel := context.WithTimeout(ctx, p.opts.OverallTimeout)
	defer cancel()

	queries := p.generator.Generate(req, profile)
	if len(queries) > p.opts.MaxQueries {
		queries = queries[:p.opts.MaxQueries]
	}

	hits, used := p.executeSearches(ctx, queries, profile)
	// Analysis covers only the top hits; the cap bounds classifier spend
	// as well as concurrency.
	if len(hits) > p.opts.FanoutCap {
		hits = hits[:p.opts.FanoutCap]
	}
	p.logger.Info("search executed",
		"queries", len(used), "hits", len(hits), "country", profile.CountryCode)

	candidates, rejections := p.analyzeHits(ctx, hits, req.Mode, profile)

	report := domain.SearchReport{
		SessionID:   uuid.NewString(),
		Suppliers:   aggregate.Deduplicate(candidates),
		Rejections:  rejections,
		QueriesUsed: used,
		Location:    profile,
		Elapsed:     time.Since(started),
		StartedAt:   started,
	}

	p.logger.Info("search session done",
		"session", report.SessionID,
		"suppliers", len(report.Suppliers),
		"rejections", len(report.Rejections),
		"elapsed", report.Elapsed)
	return report, nil
}

// executeSearches runs the truncated query list against the provider,
// preserving query order in the combined hit list.
func (p *Pipeline) executeSearches(ctx context.Context, queries []domain.CandidateQuery, profile domain.LocationProfile) ([]domain.RawSearchHit, []string) {
	var (
		hits []domain.RawSearchHit
		used []string
	)
	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		used = append(used, q.Text)

		if i == 0 && p.opts.Multilingual && len(profile.SearchLanguages()) > 1 {
			for _, set := range p.search.SearchMultilingual(ctx, q.Text, profile, p.opts.MaxResultsPerQuery) {
				hits = append(hits, set...)
			}
			continue
		}
		hits = append(hits, p.search.SearchSuppliers(ctx, q.Text, profile, p.opts.MaxResultsPerQuery)...)
	}
	return hits, used
}

type hitOutcome struct {
	candidate *domain.SupplierCandidate
	rejection *domain.Rejection
}

// analyzeHits fans hit analysis out over a bounded worker set and
// reassembles outcomes in the original hit order.
func (p *Pipeline) analyzeHits(ctx context.Context, hits []domain.RawSearchHit, mode domain.ExtractionMode, profile domain.LocationProfile) ([]domain.SupplierCandidate, []domain.Rejection) {
	outcomes := make([]hitOutcome, len(hits))
	sem := make(chan struct{}, p.opts.FanoutCap)

	var wg sync.WaitGroup
	for i, hit := range hits {
		wg.Add(1)
		go func(i int, hit domain.RawSearchHit) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				outcomes[i] = hitOutcome{rejection: &domain.Rejection{
					URL:    hit.URL,
					Reason: "session deadline reached before analysis",
				}}
				return
			}
			outcomes[i] = p.analyzeHit(ctx, hit, mode, profile)
		}(i, hit)
	}
	wg.Wait()

	var (
		candidates []domain.SupplierCandidate
		rejections []domain.Rejection
	)
	for _, out := range outcomes {
		if out.candidate != nil {
			candidates = append(candidates, *out.candidate)
		}
		if out.rejection != nil {
			rejections = append(rejections, *out.rejection)
		}
	}
	return candidates, rejections
}

func (p *Pipeline) analyzeHit(ctx context.Context, hit domain.RawSearchHit, mode domain.ExtractionMode, profile domain.LocationProfile) hitOutcome {
	if hit.URL == "" && hit.Title == "" {
		return hitOutcome{rejection: &domain.Rejection{Reason: "hit carries no url or title"}}
	}

	if mode == domain.ModeSnippet {
		return p.analyzeSnippet(hit, profile)
	}
	return p.analyzePage(ctx, hit, profile)
}

// analyzeSnippet mines the search snippet itself, trading recall for a
// session that makes zero page fetches. Inclusion uses the lenient
// has-a-phone gate; the stored phone list stays strict, so a candidate
// can pass the gate with an empty list.
func (p *Pipeline) analyzeSnippet(hit domain.RawSearchHit, profile domain.LocationProfile) hitOutcome {
	text := hit.Title + " " + hit.Snippet
	phones := extract.Phones(text)
	emails := extract.Emails(text)
	if len(phones) == 0 && len(emails) == 0 && !extract.HasPhone(text) {
		return hitOutcome{rejection: &domain.Rejection{
			URL:    hit.URL,
			Reason: "no contact data in snippet",
		}}
	}

	contactInfo := extract.ContactLine(phones, emails)
	if contactInfo == "" {
		contactInfo = strings.TrimSpace(hit.Snippet)
	}

	return hitOutcome{candidate: &domain.SupplierCandidate{
		Name:         hit.Title,
		Website:      hit.URL,
		ContactInfo:  contactInfo,
		Phones:       phones,
		Emails:       emails,
		SupplierType: "search_result",
		Location:     profile.CountryName,
		Source:       hit.Source,
	}}
}

// analyzePage runs the full site analysis for a hit and converts the
// verdict into a candidate or a rejection.
func (p *Pipeline) analyzePage(ctx context.Context, hit domain.RawSearchHit, profile domain.LocationProfile) hitOutcome {
	analysis := p.analyzeSite(ctx, hit.URL)
	if !analysis.Qualifies {
		return hitOutcome{rejection: &domain.Rejection{
			URL:    hit.URL,
			Reason: analysis.Reason,
		}}
	}
	if len(analysis.Phones) == 0 && len(analysis.Emails) == 0 {
		return hitOutcome{rejection: &domain.Rejection{
			URL:    hit.URL,
			Reason: "qualified but no contact details found",
		}}
	}

	return hitOutcome{candidate: &domain.SupplierCandidate{
		Name:         hit.Title,
		Website:      hit.URL,
		ContactInfo:  extract.ContactLine(analysis.Phones, analysis.Emails),
		Phones:       analysis.Phones,
		Emails:       analysis.Emails,
		SupplierType: "direct_seller",
		Location:     profile.CountryName,
		Source:       hit.Source,
	}}
}

// analyzeSite fetches and classifies a site's landing page, then mines
// every discovered page for contacts. The returned analysis carries the
// classifier verdict together with the site-wide contact sets.
func (p *Pipeline) analyzeSite(ctx context.Context, siteURL string) domain.PageAnalysis {
	pageText := p.fetcher.Fetch(ctx, siteURL)
	analysis := p.classifier.Classify(ctx, pageText)
	if !analysis.Qualifies {
		return analysis
	}

	phones := extract.Phones(pageText)
	emails := extract.Emails(pageText)
	for _, page := range p.discoverer.Discover(ctx, siteURL) {
		if page == siteURL {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		text := p.fetcher.Fetch(ctx, page)
		phones = append(phones, extract.Phones(text)...)
		emails = append(emails, extract.Emails(text)...)
	}
	analysis.Phones = dedupe(phones)
	analysis.Emails = dedupe(emails)
	return analysis
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
