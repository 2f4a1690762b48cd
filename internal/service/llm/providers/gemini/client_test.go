package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "gemini-2.0-flash", "test-key", 5*time.Second, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, srv
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", "gemini-2.0-flash", "", time.Second, testLogger()); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewClient("", "", "key", time.Second, testLogger()); err == nil {
		t.Error("expected error for missing model")
	}

	client, err := NewClient("", "gemini-2.0-flash", "key", time.Second, testLogger())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want default", client.baseURL)
	}
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey, gotContentType string
	var gotBody Request

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotContentType = r.Header.Get("Content-Type")

		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("request body is not valid JSON: %v", err)
		}

		json.NewEncoder(w).Encode(Response{
			Candidates: []Candidate{
				{Content: Content{Parts: []Part{{Text: "hello back"}}}},
			},
		})
	})

	text, err := client.GenerateContent(context.Background(), "hello")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if text != "hello back" {
		t.Errorf("text = %q, want hello back", text)
	}

	if gotPath != "/models/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q, want test-key", gotKey)
	}
	if gotContentType != "application/json" {
		t.Errorf("content-type = %q", gotContentType)
	}
	if len(gotBody.Contents) != 1 ||
		len(gotBody.Contents[0].Parts) != 1 ||
		gotBody.Contents[0].Parts[0].Text != "hello" {
		t.Errorf("request body = %+v, want one content with one part", gotBody)
	}
}

func TestGenerateContent_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"quota exceeded"}}`)
	})

	_, err := client.GenerateContent(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code in message", err)
	}
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"no parts", `{"candidates":[{"content":{"parts":[]}}]}`},
		{"empty text", `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`},
		{"not JSON", `<html>gateway timeout</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			if _, err := client.GenerateContent(context.Background(), "hello"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateContent_RedactsCredential(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.GenerateContent(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error against a closed server")
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Errorf("error text leaks the API key: %v", err)
	}
}

func TestGenerateContent_ContextCancel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// r.Context() when the client gives up; otherwise this handler
		// blocks forever and srv.Close deadlocks in cleanup.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.GenerateContent(ctx, "hello"); err == nil {
		t.Error("expected error after context timeout")
	}
}
