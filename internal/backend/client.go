// Package backend implements the HTTP client for the PDF question-answering
// service: document upload, query answering and session reset.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service is what the session layer needs from the backend. Client is the
// real implementation; Mock serves offline runs and tests.
type Service interface {
	Upload(ctx context.Context, paths []string) error
	Query(ctx context.Context, query, language string) (string, error)
	Clear(ctx context.Context) error
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

// The service also returns "complete" and "mode"; only "response" matters to
// the client. A pointer distinguishes a missing field from an empty answer.
type queryResponse struct {
	Response *string `json:"response"`
}

// Query submits a question with the given language preference and returns
// the generated answer.
func (c *Client) Query(ctx context.Context, query, language string) (string, error) {
	payload, err := json.Marshal(queryRequest{Query: query, Language: language})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/query/", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading query response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError("query", resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return "", fmt.Errorf("malformed query response: %w", err)
	}
	if qr.Response == nil {
		return "", errors.New("query response missing \"response\" field")
	}
	return *qr.Response, nil
}

// Upload sends the files as one multipart batch, one "files" part per
// document, preserving the original file names.
func (c *Client) Upload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New("no files to upload")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range paths {
		if err := writeFilePart(w, p); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload/", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	// The acknowledgement body is opaque; only the status matters.
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("upload", resp.StatusCode, body)
	}
	return nil
}

func writeFilePart(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	part, err := w.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Clear discards all server-side indexed documents and conversation state.
func (c *Client) Clear(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/clear/", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("clear request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("clear failed: status %d", resp.StatusCode)
	}
	return nil
}

// statusError extracts the FastAPI "detail" message when present.
func statusError(op string, status int, body []byte) error {
	var er struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &er)
	if er.Detail != "" {
		return fmt.Errorf("%s failed: status %d: %s", op, status, er.Detail)
	}
	return fmt.Errorf("%s failed: status %d", op, status)
}
