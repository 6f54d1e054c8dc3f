package agui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAzureOpenAIClientComplete(t *testing.T) {
	var gotPath, gotKey string
	var gotBody chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello there"}},
			},
		})
	}))
	defer srv.Close()

	client := NewAzureOpenAIClient(srv.URL, "gpt-4o", "secret-key")
	reply, err := client.Complete(context.Background(), "be brief", []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if reply.Content != "hello there" {
		t.Errorf("reply = %q, want %q", reply.Content, "hello there")
	}
	if !strings.Contains(gotPath, "/openai/deployments/gpt-4o/chat/completions") {
		t.Errorf("unexpected request path %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("api-key header = %q", gotKey)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Errorf("expected system instructions first, got %+v", gotBody.Messages)
	}
}

func TestAzureOpenAIClientErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"code": "401", "message": "bad key"}}`))
	}))
	defer srv.Close()

	client := NewAzureOpenAIClient(srv.URL, "gpt-4o", "wrong")
	if _, err := client.Complete(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for non-200 response")
	} else if !strings.Contains(err.Error(), "bad key") {
		t.Errorf("error should surface provider message, got %v", err)
	}
}

func TestAzureOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewAzureOpenAIClient(srv.URL, "gpt-4o", "key")
	if _, err := client.Complete(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
