package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello"},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("gemini-2.5-flash", srv.URL)
	reply, err := c.Generate(context.Background(), "key123", []Content{
		{Role: "user", Parts: []Part{{Text: "hi"}}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "Hello\nthere" {
		t.Errorf("reply = %q, want part texts joined with newline", reply)
	}
	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "key123" {
		t.Errorf("x-goog-api-key = %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Role != "user" {
		t.Errorf("request contents = %+v", gotReq.Contents)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("", srv.URL)
	reply, err := c.Generate(context.Background(), "k", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty string", reply)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("", srv.URL)
	_, err := c.Generate(context.Background(), "k", nil)

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d", ue.Status)
	}
	if !strings.Contains(ue.Body, "rate limited") {
		t.Errorf("body = %q, want upstream diagnostic preserved", ue.Body)
	}
	if !strings.Contains(ue.Error(), "rate limited") {
		t.Errorf("Error() = %q, want upstream text included", ue.Error())
	}
}
