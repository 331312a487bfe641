package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"study-assistant/internal/config"
)

func hfConfig(endpoint string) *config.GenerationConfig {
	return &config.GenerationConfig{
		Provider:       "hf",
		Endpoint:       endpoint,
		Model:          "test-model",
		Token:          "secret-token",
		MaxNewTokens:   256,
		Temperature:    0.2,
		TopK:           50,
		TimeoutSeconds: 5,
	}
}

func TestNewReturnsNilWhenIncomplete(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GenerationConfig
	}{
		{"no token", config.GenerationConfig{Provider: "hf", Endpoint: "http://x", Model: "m"}},
		{"no model", config.GenerationConfig{Provider: "hf", Endpoint: "http://x", Token: "t"}},
		{"no endpoint", config.GenerationConfig{Provider: "hf", Model: "m", Token: "t"}},
		{"unknown provider", config.GenerationConfig{Provider: "other", Endpoint: "http://x", Model: "m", Token: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if g := New(&tt.cfg); g != nil {
				t.Error("expected nil generator")
			}
		})
	}
}

func TestHFGenerate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "the answer"}})
	}))
	defer srv.Close()

	g := New(hfConfig(srv.URL))
	if g == nil {
		t.Fatal("expected generator")
	}
	got, err := g.Generate(context.Background(), "a prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "the answer" {
		t.Errorf("got %q", got)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("auth header: %q", gotAuth)
	}
	if gotBody["inputs"] != "a prompt" {
		t.Errorf("inputs: %v", gotBody["inputs"])
	}
	params, ok := gotBody["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("missing parameters: %v", gotBody)
	}
	if params["max_new_tokens"] != float64(256) || params["top_k"] != float64(50) {
		t.Errorf("parameters: %v", params)
	}
}

func TestHFGenerateErrorShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model is loading"})
	}))
	defer srv.Close()

	g := New(hfConfig(srv.URL))
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Error("expected error for error-shaped response")
	}
}

func TestHFGenerateNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	g := New(hfConfig(srv.URL))
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestHFGenerateUnreachable(t *testing.T) {
	g := New(hfConfig("http://127.0.0.1:1"))
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Error("expected transport error")
	}
}
