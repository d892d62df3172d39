package serp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"SupplierScout/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", Options{BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchDecodesOrganicResults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		if got := q.Get("gl"); got != "de" {
			t.Errorf("gl = %q, want de", got)
		}
		if got := q.Get("hl"); got != "de" {
			t.Errorf("hl = %q, want de", got)
		}
		if got := q.Get("num"); got != "5" {
			t.Errorf("num = %q, want 5", got)
		}
		w.Write([]byte(`{"organic_results":[
			{"title":"Acme GmbH","link":"https://acme.de","snippet":"Industrial supplier"},
			{"title":"Beta AG","link":"https://beta.de","snippet":"Wholesale parts"}
		]}`))
	}))

	hits := client.Search(context.Background(), "steel pipes supplier", "de", "de", 5)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Title != "Acme GmbH" || hits[0].URL != "https://acme.de" {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Source != "organic" {
		t.Errorf("source = %q, want organic", hits[0].Source)
	}
}

func TestSearchDecodesLocalAndShoppingShapes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"local_results":{"places":[{"title":"Local Depot","url":"https://depot.kz","description":"склад"}]},
			"shopping_results":[{"title":"Shop Item","href":"https://shop.kz/item","snippet":"оптом"}]
		}`))
	}))

	hits := client.Search(context.Background(), "трубы оптом", "kz", "ru", 10)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].URL != "https://depot.kz" || hits[0].Source != "local" {
		t.Errorf("unexpected local hit: %+v", hits[0])
	}
	if hits[0].Snippet != "склад" {
		t.Errorf("snippet = %q, description alias not applied", hits[0].Snippet)
	}
	if hits[1].URL != "https://shop.kz/item" || hits[1].Source != "shopping" {
		t.Errorf("unexpected shopping hit: %+v", hits[1])
	}
}

func TestSearchDecodesSingleObjectSection(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"organic_results":{"title":"Lone Supplier","link":"https://lone.kz","snippet":"опт"},
			"local_results":{"title":"Lone Place","url":"https://place.kz"}
		}`))
	}))

	hits := client.Search(context.Background(), "цемент", "kz", "ru", 10)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Title != "Lone Supplier" || hits[0].Source != "organic" {
		t.Errorf("unexpected organic hit: %+v", hits[0])
	}
	if hits[1].URL != "https://place.kz" || hits[1].Source != "local" {
		t.Errorf("unexpected local hit: %+v", hits[1])
	}
}

func TestSearchCapsResults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results":[
			{"title":"1","link":"https://a.com"},
			{"title":"2","link":"https://b.com"},
			{"title":"3","link":"https://c.com"}
		]}`))
	}))

	hits := client.Search(context.Background(), "anything", "us", "en", 2)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want cap of 2", len(hits))
	}
}

func TestSearchFailsSoft(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"organic_results": not json`))
		}},
		{"unrecognized shape", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"answer_box":{"text":"42"}}`))
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, tc.handler)
			if hits := client.Search(context.Background(), "q", "us", "en", 5); len(hits) != 0 {
				t.Errorf("got %d hits, want 0", len(hits))
			}
		})
	}
}

func TestSearchSuppliersEnhancesQuery(t *testing.T) {
	t.Parallel()

	var seen atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.URL.Query().Get("q"))
		w.Write([]byte(`{"organic_results":[{"title":"Hit","link":"https://hit.kz"}]}`))
	}))

	profile := domain.LocationProfile{
		CountryCode:  "kz",
		Language:     "ru",
		LocalSources: []string{"kz.all.biz", "exportpages.com", "tradekey.com"},
	}
	hits := client.SearchSuppliers(context.Background(), "цемент оптом", profile, 5)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}

	q, _ := seen.Load().(string)
	for _, want := range []string{"цемент оптом", "контакты", "supplier", "site:kz.all.biz", "site:tradekey.com"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestSearchSuppliersFallsBackOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`{}`))
			return
		}
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "site:") || strings.Contains(q, " AND ") {
			t.Errorf("fallback query still enhanced: %q", q)
		}
		w.Write([]byte(`{"organic_results":[{"title":"Plain","link":"https://plain.de"}]}`))
	}))

	profile := domain.LocationProfile{CountryCode: "de", Language: "de"}
	hits := client.SearchSuppliers(context.Background(), "schrauben lieferant", profile, 5)
	if got := calls.Load(); got != 2 {
		t.Fatalf("made %d calls, want 2", got)
	}
	if len(hits) != 1 || hits[0].URL != "https://plain.de" {
		t.Fatalf("unexpected fallback hits: %+v", hits)
	}
}

func TestSearchMultilingualOneSetPerLanguage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("hl") == "kk" {
			http.Error(w, "quota", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"organic_results":[{"title":"Hit","link":"https://hit.kz"}]}`))
	}))

	profile := domain.LocationProfile{
		CountryCode:    "kz",
		Language:       "ru",
		ExtraLanguages: []string{"kk", "en"},
	}
	sets := client.SearchMultilingual(context.Background(), "бетон", profile, 5)
	if len(sets) != 3 {
		t.Fatalf("got %d result sets, want 3", len(sets))
	}
	if len(sets[0]) != 1 || len(sets[2]) != 1 {
		t.Errorf("expected hits for ru and en sets: %d, %d", len(sets[0]), len(sets[2]))
	}
	if len(sets[1]) != 0 {
		t.Errorf("failed language should yield empty set, got %d", len(sets[1]))
	}
}

func TestEnhanceForContactPagesUnknownLanguageUsesEnglish(t *testing.T) {
	t.Parallel()

	q := EnhanceForContactPages("widgets", "xx")
	if !strings.Contains(q, "contact us") {
		t.Errorf("query %q missing english keywords", q)
	}
}
