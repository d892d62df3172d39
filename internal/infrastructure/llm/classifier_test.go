package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClassifier(t *testing.T, handler http.Handler) *Classifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClassifier("test-key", srv.URL, "test-model", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func completionResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestClassifyQualifyingPage(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("request body not json: %v", err)
		}
		format, _ := req["response_format"].(map[string]any)
		if format["type"] != "json_object" {
			t.Errorf("response_format = %v, want json_object", req["response_format"])
		}
		io.WriteString(w, completionResponse(`{"qualifies":true,"reason":"sells pipes wholesale","signals":{"product_listings":true,"pricing_info":true,"purchase_options":false,"contact_required":false}}`))
	}))

	analysis := c.Classify(context.Background(), "Steel pipes wholesale, price list, call +1 555 123 4567")
	if !analysis.Qualifies {
		t.Fatalf("page should qualify, reason=%q", analysis.Reason)
	}
	if !analysis.Signals["product_listings"] || !analysis.Signals["pricing_info"] {
		t.Errorf("signals lost: %+v", analysis.Signals)
	}
}

func TestClassifyRecoversJSONFromProse(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, completionResponse("Here is my analysis:\n```json\n{\"qualifies\":true,\"reason\":\"direct seller {verified}\",\"signals\":{}}\n```\nHope that helps."))
	}))

	analysis := c.Classify(context.Background(), "some page text")
	if !analysis.Qualifies {
		t.Fatalf("json not recovered from wrapped output, reason=%q", analysis.Reason)
	}
	if analysis.Reason != "direct seller {verified}" {
		t.Errorf("reason = %q, braces inside strings mishandled", analysis.Reason)
	}
}

func TestClassifyEmptyTextSkipsModelCall(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("model should not be called for empty text")
	}))

	analysis := c.Classify(context.Background(), "   ")
	if analysis.Qualifies {
		t.Fatal("empty page must not qualify")
	}
	if analysis.Reason != "Could not access webpage content" {
		t.Errorf("reason = %q", analysis.Reason)
	}
}

func TestClassifyFailsSoft(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"model error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"choices":[]}`)
		}},
		{"non-json content", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, completionResponse("I cannot analyze this page."))
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClassifier(t, tc.handler)
			analysis := c.Classify(context.Background(), "page text")
			if analysis.Qualifies {
				t.Error("failure must yield a non-qualifying analysis")
			}
			if analysis.Reason == "" {
				t.Error("failure reason must be recorded")
			}
		})
	}
}

func TestClassifyMissingAPIKey(t *testing.T) {
	t.Parallel()

	c := NewClassifier("", "http://127.0.0.1:1", "m", slog.New(slog.NewTextHandler(io.Discard, nil)))
	analysis := c.Classify(context.Background(), "page text")
	if analysis.Qualifies || !strings.Contains(analysis.Reason, "misconfigured") {
		t.Errorf("unexpected analysis: %+v", analysis)
	}
}
