package serp

import (
	"encoding/json"
	"strings"

	"SupplierScout/internal/domain"
)

// rawHit accepts the field spellings the provider uses across its
// organic, local and shopping result shapes.
type rawHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	URL     string `json:"url"`
	Href    string `json:"href"`
	Snippet string `json:"snippet"`
	Desc    string `json:"description"`
	Source  string `json:"source"`
}

func (h rawHit) toDomain(fallbackSource string) domain.RawSearchHit {
	link := h.Link
	if link == "" {
		link = h.URL
	}
	if link == "" {
		link = h.Href
	}
	snippet := h.Snippet
	if snippet == "" {
		snippet = h.Desc
	}
	source := h.Source
	if source == "" {
		source = fallbackSource
	}
	return domain.RawSearchHit{
		Title:   strings.TrimSpace(h.Title),
		URL:     strings.TrimSpace(link),
		Snippet: strings.TrimSpace(snippet),
		Source:  source,
	}
}

// localBlock is either a bare array of places or an object wrapping one.
type localBlock struct {
	Places []rawHit `json:"places"`
}

// decodeHits pulls search hits out of a provider response. Organic
// results come first, then local places, then shopping items, capped at
// maxResults. Sections with unrecognized shapes are skipped, not
// guessed at; a fully unrecognized payload decodes to nothing.
func decodeHits(body []byte, maxResults int) []domain.RawSearchHit {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}

	var hits []domain.RawSearchHit
	appendHits := func(raw []rawHit, source string) {
		for _, h := range raw {
			if len(hits) >= maxResults {
				return
			}
			dh := h.toDomain(source)
			if dh.URL == "" && dh.Title == "" {
				continue
			}
			hits = append(hits, dh)
		}
	}

	if raw, ok := payload["organic_results"]; ok {
		appendHits(decodeSection(raw), "organic")
	}

	if raw, ok := payload["local_results"]; ok && len(hits) < maxResults {
		var block localBlock
		if err := json.Unmarshal(raw, &block); err == nil && len(block.Places) > 0 {
			appendHits(block.Places, "local")
		} else {
			appendHits(decodeSection(raw), "local")
		}
	}

	if raw, ok := payload["shopping_results"]; ok && len(hits) < maxResults {
		appendHits(decodeSection(raw), "shopping")
	}

	return hits
}

// decodeSection accepts a result section as either a list of hits or a
// single bare hit object, which the provider emits for one-result
// sections.
func decodeSection(raw json.RawMessage) []rawHit {
	var list []rawHit
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single rawHit
	if err := json.Unmarshal(raw, &single); err == nil {
		return []rawHit{single}
	}
	return nil
}
