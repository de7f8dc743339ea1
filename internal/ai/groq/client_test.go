package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gen, err := NewGenerator("test-key", "test-model", time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gen.baseURL = server.URL
	return gen
}

func TestGenerateContent(t *testing.T) {
	var gotAuth, gotModel string

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		gotModel = body.Model

		w.Write([]byte(`{"choices": [{"message": {"content": "{\"score\": 80}"}}]}`))
	})

	out, err := gen.GenerateContent(context.Background(), "evaluate this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != `{"score": 80}` {
		t.Fatalf("unexpected output: %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotModel != "test-model" {
		t.Fatalf("unexpected model: %q", gotModel)
	}
}

func TestGenerateWithModelOverride(t *testing.T) {
	var gotModel string

	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	})

	if _, err := gen.GenerateWithModel(context.Background(), "degraded-model", "prompt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotModel != "degraded-model" {
		t.Fatalf("expected model override, got %q", gotModel)
	}
}

func TestGenerateContentAPIError(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit"}}`))
	})

	if _, err := gen.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestGenerateContentEmptyChoices(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	})

	if _, err := gen.GenerateContent(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error on empty choices")
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator("  ", "", time.Second, zap.NewNop()); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}
