package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"SupplierScout/internal/domain"
	"SupplierScout/internal/ports"
)

const (
	defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel    = "llama-3.3-70b-versatile"
)

// Classifier judges supplier pages with an OpenAI-compatible chat API.
// It never returns errors: a failed call is a non-qualifying analysis
// carrying the failure as its reason, so one bad page cannot sink a
// search session.
type Classifier struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier builds a classifier. Empty endpoint or model fall back
// to the Groq defaults.
func NewClassifier(apiKey, endpoint, model string, logger *slog.Logger) *Classifier {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if model == "" {
		model = defaultModel
	}
	return &Classifier{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

const systemPrompt = `You analyze supplier web pages for procurement research.
Decide whether the page belongs to a business that directly sells goods
or is a supplier a buyer could contact.

Qualify the page when it shows product listings, pricing, wholesale or
purchase options, or supplier contact details. Reject aggregator listings
without their own goods, pure news or blog content, and pages with no
commercial intent.

Respond with JSON only, no prose, in exactly this shape:
{"qualifies": true/false, "reason": "...", "signals": {"product_listings": bool, "pricing_info": bool, "purchase_options": bool, "contact_required": bool}}`

type analysisPayload struct {
	Qualifies bool            `json:"qualifies"`
	Reason    string          `json:"reason"`
	Signals   map[string]bool `json:"signals"`
}

// Classify analyzes page text. Empty text short-circuits to a
// non-qualifying analysis without spending a model call.
func (c *Classifier) Classify(ctx context.Context, pageText string) domain.PageAnalysis {
	if strings.TrimSpace(pageText) == "" {
		return domain.PageAnalysis{
			Qualifies: false,
			Reason:    "Could not access webpage content",
		}
	}

	content, err := c.complete(ctx, pageText)
	if err != nil {
		c.debug("classification call failed", "error", err)
		return domain.PageAnalysis{
			Qualifies: false,
			Reason:    fmt.Sprintf("classification failed: %v", err),
		}
	}

	var payload analysisPayload
	if err := json.Unmarshal(extractJSONObject(content), &payload); err != nil {
		c.debug("classification response unparseable", "error", err)
		return domain.PageAnalysis{
			Qualifies: false,
			Reason:    "classification response was not valid JSON",
		}
	}

	return domain.PageAnalysis{
		Qualifies: payload.Qualifies,
		Reason:    payload.Reason,
		Signals:   payload.Signals,
	}
}

func (c *Classifier) complete(ctx context.Context, pageText string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("classifier misconfigured: missing api key")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": "Page content:\n" + pageText},
		},
		"response_format": map[string]string{"type": "json_object"},
		"temperature":     0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("model error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// extractJSONObject recovers the first balanced JSON object from model
// output that may wrap it in prose or code fences.
func extractJSONObject(content string) []byte {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return []byte(content)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return []byte(content[start : i+1])
			}
		}
	}
	return []byte(content[start:])
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
