package query

import (
	"fmt"
	"strings"

	"SupplierScout/internal/domain"
)

// Generator expands one search intent into an ordered list of candidate
// query strings. Output ordering is deterministic; consumers truncate to
// a budget to control external-API spend.
type Generator struct {
	registry *Registry
}

// NewGenerator wires a template registry; nil gets the default registry.
func NewGenerator(registry *Registry) *Generator {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Generator{registry: registry}
}

// Generate builds the candidate queries for one request. The count is a
// pure function of {strategy, hasAmount, hasDate}: the base templates,
// plus one buy…deliver variant when a date is present, plus one
// amount-suffixed counterpart per base template when an amount is
// present. The delivery variant embeds the amount once and is never
// amount-suffixed again.
func (g *Generator) Generate(req domain.SearchRequest, profile domain.LocationProfile) []domain.CandidateQuery {
	product := strings.TrimSpace(req.Query)
	if product == "" {
		return nil
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = domain.StrategyDirect
	}

	set, err := g.registry.Resolve(strategy, profile.Language)
	if err != nil {
		// Unregistered strategies degrade to the plainest query form.
		return []domain.CandidateQuery{{
			Text:     fmt.Sprintf("%s supplier %s", product, profile.CountryName),
			Strategy: strategy,
			Language: profile.Language,
		}}
	}

	base := make([]string, 0, len(set.Phrases))
	for _, phrase := range set.Phrases {
		base = append(base, fmt.Sprintf("%s %s %s", product, phrase, profile.CountryName))
	}

	queries := append([]string(nil), base...)

	if strings.TrimSpace(req.DeliveryDate) != "" {
		subject := product
		if strings.TrimSpace(req.Amount) != "" {
			subject = fmt.Sprintf("%s %s", strings.TrimSpace(req.Amount), product)
		}
		queries = append(queries, fmt.Sprintf(set.Delivery, subject, profile.CountryName, strings.TrimSpace(req.DeliveryDate)))
	}

	if amount := strings.TrimSpace(req.Amount); amount != "" {
		for _, q := range base {
			queries = append(queries, fmt.Sprintf("%s %s", q, amount))
		}
	}

	tagged := make([]domain.CandidateQuery, 0, len(queries))
	for _, q := range queries {
		tagged = append(tagged, domain.CandidateQuery{
			Text:     q,
			Strategy: strategy,
			Language: profile.Language,
		})
	}
	return tagged
}
