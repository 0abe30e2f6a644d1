package syllabus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.GeminiConfig{
		APIKey:         "test-key",
		Model:          "gemini-3-flash-preview",
		BaseURL:        srv.URL,
		TimeoutSeconds: 5,
	}
	return NewClient(cfg, zerolog.Nop()), srv
}

func candidateReply(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return body
}

func TestExtractParsesItems(t *testing.T) {
	var gotPath, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		w.Write(candidateReply(t, `[
			{"title": "Assignment 1", "type": "assignment", "date": "2025-09-15", "description": "Intro to C"},
			{"title": "Midterm", "type": "exam", "date": "2025-10-20T14:30:00", "description": ""}
		]`))
	})

	items, err := client.Extract(context.Background(), "some syllabus text", "COMP 206")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if gotPath != "/v1beta/models/gemini-3-flash-preview:generateContent" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key query param = %q", gotKey)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Title != "Assignment 1" || items[0].Type != "assignment" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Date != "2025-10-20T14:30:00" {
		t.Errorf("second item date = %q", items[1].Date)
	}
}

func TestExtractDropsInvalidItemsPreservingOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, `[
			{"title": "A", "type": "assignment", "date": "2025-09-01"},
			{"title": "B", "type": "reading", "date": "2025-09-02"},
			{"title": "", "type": "exam", "date": "2025-09-03"},
			{"title": "D", "type": "milestone", "date": "2025-09-04"},
			{"title": "E", "type": "quiz-show", "date": ""}
		]`))
	})

	items, err := client.Extract(context.Background(), "text", "COMP 206")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{"A", "B", "D"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, title)
		}
	}
}

func TestExtractAcceptsEventsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, `{"events": [{"title": "Final", "type": "exam", "date": "2025-12-10"}]}`))
	})

	items, err := client.Extract(context.Background(), "text", "MATH 240")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(items) != 1 || items[0].Title != "Final" {
		t.Fatalf("items = %+v, want single Final", items)
	}
}

func TestExtractNonJSONPayloadYieldsEmpty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateReply(t, "Sorry, I could not find any dates in this document."))
	})

	items, err := client.Extract(context.Background(), "text", "COMP 206")
	if err != nil {
		t.Fatalf("Extract() error = %v, want nil for schema failure", err)
	}
	if len(items) != 0 {
		t.Fatalf("len(items) = %d, want 0", len(items))
	}
}

func TestExtractServerErrorSurfaces(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Extract(context.Background(), "text", "COMP 206")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
	}
}

func TestExtractTransportErrorSurfaces(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Extract(context.Background(), "text", "COMP 206")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("Extract() error = %v, want ErrExtractionFailed", err)
	}
}
