package models

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("http://localhost:11434")
	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.client == nil {
		t.Error("client not initialized")
	}
}

func TestListAvailableModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": "aya-expanse"}, {"id": "llama3.1"}]}`))
	}))
	defer server.Close()

	lister := NewLister(server.URL)
	if err := lister.ListAvailableModels(); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}
}

func TestListAvailableModelsUnreachable(t *testing.T) {
	lister := NewLister("http://127.0.0.1:1")
	if err := lister.ListAvailableModels(); err == nil {
		t.Error("expected error for unreachable server")
	}
}
