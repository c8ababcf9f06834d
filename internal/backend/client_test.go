package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestQuerySendsLanguageAndReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		var req struct {
			Query    string `json:"query"`
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Query != "what is this?" || req.Language != "ne" {
			t.Errorf("unexpected payload: %+v", req)
		}
		fmt.Fprint(w, `{"response":"a summary","complete":true,"mode":"document"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.Query(context.Background(), "what is this?", "ne")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if got != "a summary" {
		t.Errorf("expected answer, got %q", got)
	}
}

func TestQueryMissingResponseFieldIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Query(context.Background(), "q", "en"); err == nil {
		t.Fatal("expected error for missing response field")
	}
}

func TestQueryEmptyAnswerIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":""}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.Query(context.Background(), "q", "en")
	if err != nil {
		t.Fatalf("empty answer must not error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty answer, got %q", got)
	}
}

func TestQuerySurfacesDetailOnFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"model unavailable"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Query(context.Background(), "q", "en")
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("expected status and detail in error, got %q", err)
	}
}

func TestQueryMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Query(context.Background(), "q", "en"); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestQueryTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	if _, err := c.Query(context.Background(), "q", "en"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestUploadSendsMultipartBatch(t *testing.T) {
	type part struct {
		field    string
		filename string
		content  string
	}
	var parts []part

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		mr, err := r.MultipartReader()
		if err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("reading part: %v", err)
			}
			data, _ := io.ReadAll(p)
			parts = append(parts, part{p.FormName(), p.FileName(), string(data)})
		}
		fmt.Fprint(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	a := writeTempFile(t, "a.pdf", "first")
	b := writeTempFile(t, "b.pdf", "second")

	c := NewClient(srv.URL, time.Second)
	if err := c.Upload(context.Background(), []string{a, b}); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	want := []part{
		{"files", "a.pdf", "first"},
		{"files", "b.pdf", "second"},
	}
	for i, w := range want {
		if parts[i] != w {
			t.Errorf("part %d: expected %+v, got %+v", i, w, parts[i])
		}
	}
}

func TestUploadNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Only PDF files are allowed"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Upload(context.Background(), []string{writeTempFile(t, "a.pdf", "x")})
	if err == nil {
		t.Fatal("expected error for 400")
	}
	if !strings.Contains(err.Error(), "Only PDF files are allowed") {
		t.Errorf("expected detail message in error, got %q", err)
	}
}

func TestUploadMissingFileIsError(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second)
	if err := c.Upload(context.Background(), []string{"/no/such/file.pdf"}); err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if err := c.Upload(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestClearPostsEmptyBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotLen int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotLen = r.ContentLength
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if err := c.Clear(context.Background()); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/clear/" {
		t.Errorf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotLen > 0 {
		t.Errorf("expected empty body, got length %d", gotLen)
	}
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	c := NewClient("http://host:8000/", time.Second)
	if c.BaseURL != "http://host:8000" {
		t.Errorf("expected trimmed base url, got %q", c.BaseURL)
	}
	c = NewClient("", 0)
	if c.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("expected default base url, got %q", c.BaseURL)
	}
	if c.HTTP.Timeout <= 0 {
		t.Error("expected default timeout")
	}
}
