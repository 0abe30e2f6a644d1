// Package syllabus turns raw syllabus text into calendar events: a Gemini
// extraction client producing ExtractedItems, and a normalizer mapping those
// into canonical model.Events.
package syllabus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/config"
	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
)

const promptTemplate = `Extract all assignments, exams, and key dates from the following syllabus for the course %q.
The output must be a JSON array of objects with fields: title, type (one of: assignment, exam, reading, milestone), date (YYYY-MM-DD or ISO-8601 datetime), and description.
Return ONLY valid JSON. Do NOT wrap it in markdown.

Syllabus Text:
%s`

// Client calls the Gemini generateContent API. Build one at startup and
// share it; it holds no per-call state.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	log    zerolog.Logger
}

func NewClient(cfg config.GeminiConfig, log zerolog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: c, apiKey: cfg.APIKey, model: cfg.Model, log: log}
}

// Request/response bindings for the generateContent endpoint.

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// rawItem mirrors one entry of the model's JSON output before validation.
type rawItem struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Extract performs one extraction call. Transport and HTTP-level failures
// return an error wrapping ErrExtractionFailed. A response whose payload is
// not the expected JSON shape is logged and yields an empty slice: "nothing
// extracted" is a valid outcome the caller must tolerate. Individual entries
// missing title, type or date are dropped; survivors keep their order.
func (c *Client) Extract(ctx context.Context, rawText, courseName string) ([]model.ExtractedItem, error) {
	req := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: fmt.Sprintf(promptTemplate, courseName, rawText)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(&req).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrExtractionFailed, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		c.log.Warn().Err(err).Msg("extraction response envelope is not valid JSON")
		return []model.ExtractedItem{}, nil
	}

	return c.parseItems(candidateText(gr), courseName), nil
}

// candidateText joins the text parts of the first candidate, the way the
// model streams multi-part answers.
func candidateText(gr generateResponse) string {
	if len(gr.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}

// parseItems validates the model's JSON payload. Both the flat array shape
// and the {"events": [...]} envelope are accepted.
func (c *Client) parseItems(payload, courseName string) []model.ExtractedItem {
	trimmed := strings.TrimSpace(payload)
	out := []model.ExtractedItem{}
	if trimmed == "" {
		c.log.Warn().Str("course", courseName).Msg("extraction returned no candidate text")
		return out
	}

	var raw []rawItem
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		var wrapped struct {
			Events []rawItem `json:"events"`
		}
		if err2 := json.Unmarshal([]byte(trimmed), &wrapped); err2 != nil {
			c.log.Warn().Err(err).Str("course", courseName).Msg("extraction payload does not match the expected schema")
			return out
		}
		raw = wrapped.Events
	}

	for i, item := range raw {
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" || strings.TrimSpace(item.Type) == "" || strings.TrimSpace(item.Date) == "" {
			c.log.Debug().Int("index", i).Str("course", courseName).Msg("dropping extracted item with missing required field")
			continue
		}
		// Unknown type values pass through; the taxonomy is advisory.
		out = append(out, model.ExtractedItem{
			Title:       item.Title,
			Type:        item.Type,
			Date:        strings.TrimSpace(item.Date),
			Description: item.Description,
		})
	}
	return out
}
