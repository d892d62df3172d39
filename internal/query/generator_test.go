package query

import (
	"strings"
	"testing"

	"SupplierScout/internal/domain"
)

func deProfile() domain.LocationProfile {
	return domain.LocationProfile{CountryCode: "de", Language: "de", CountryName: "Germany"}
}

func TestGenerateBaseVariants(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)
	queries := g.Generate(domain.SearchRequest{
		Query:    "electronics supplier",
		Location: "Berlin, Germany",
		Strategy: domain.StrategyDirect,
	}, deProfile())

	if len(queries) != 3 {
		t.Fatalf("expected 3 base queries, got %d: %v", len(queries), queries)
	}
	for _, q := range queries {
		if !strings.Contains(q.Text, "Germany") {
			t.Fatalf("query %q lacks the location form", q.Text)
		}
		if q.Strategy != domain.StrategyDirect {
			t.Fatalf("query %q tagged with wrong strategy %s", q.Text, q.Strategy)
		}
	}
	if queries[0].Text != "electronics supplier supplier Germany" {
		t.Fatalf("unexpected first query: %q", queries[0].Text)
	}
}

func TestGenerateCountIsDeterministic(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)

	cases := []struct {
		amount string
		date   string
		want   int
	}{
		{"", "", 3},
		{"50", "", 6},
		{"", "25.07.2025", 4},
		{"50", "25.07.2025", 7},
	}

	for _, tc := range cases {
		req := domain.SearchRequest{
			Query:        "smartphone",
			Amount:       tc.amount,
			DeliveryDate: tc.date,
			Strategy:     domain.StrategyDirect,
		}
		got := g.Generate(req, deProfile())
		if len(got) != tc.want {
			t.Fatalf("amount=%q date=%q: expected %d queries, got %d", tc.amount, tc.date, tc.want, len(got))
		}
		// Determinism over repeated runs.
		again := g.Generate(req, deProfile())
		for i := range got {
			if got[i] != again[i] {
				t.Fatalf("generation is not deterministic at %d: %q vs %q", i, got[i].Text, again[i].Text)
			}
		}
	}
}

func TestGenerateDeliveryVariantEmbedsAmountOnce(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)
	queries := g.Generate(domain.SearchRequest{
		Query:        "smartphone",
		Amount:       "50",
		DeliveryDate: "25.07.2025",
		Strategy:     domain.StrategyDirect,
	}, deProfile())

	var delivery string
	for _, q := range queries {
		if strings.Contains(q.Text, "deliver by") {
			if delivery != "" {
				t.Fatalf("more than one delivery variant: %q and %q", delivery, q.Text)
			}
			delivery = q.Text
		}
	}

	if delivery != "buy 50 smartphone in Germany deliver by 25.07.2025" {
		t.Fatalf("unexpected delivery variant: %q", delivery)
	}
	if strings.Count(delivery, "50") != 1 {
		t.Fatalf("amount attached more than once: %q", delivery)
	}
}

func TestGenerateRussianTemplates(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)
	profile := domain.LocationProfile{CountryCode: "kz", Language: "ru", CountryName: "Kazakhstan"}
	queries := g.Generate(domain.SearchRequest{Query: "цемент", Strategy: domain.StrategyTrusted}, profile)

	if len(queries) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(queries))
	}
	if queries[0].Text != "цемент проверенные поставщики Kazakhstan" {
		t.Fatalf("unexpected query: %q", queries[0].Text)
	}
}

func TestGenerateEmptyProduct(t *testing.T) {
	t.Parallel()

	g := NewGenerator(nil)
	if got := g.Generate(domain.SearchRequest{Query: "   "}, deProfile()); got != nil {
		t.Fatalf("expected nil for empty product, got %v", got)
	}
}

func TestRegistryFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	set, err := r.Resolve(domain.StrategyLocal, "ja")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if set.Phrases[0] != "local suppliers" {
		t.Fatalf("expected english fallback, got %v", set.Phrases)
	}

	if _, err := r.Resolve(domain.Strategy("bogus"), "en"); err == nil {
		t.Fatal("expected error for unregistered strategy")
	}
}
