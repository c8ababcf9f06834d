package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageNepali  Language = "ne"
)

func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageNepali:
		return LanguageNepali, true
	}
	return "", false
}

// ErrEmptyQuery marks a blank submission. It never reaches the backend and
// callers treat it as a silent no-op rather than a reported error.
var ErrEmptyQuery = errors.New("query is empty")

// Backend is the slice of the document ingestion, query answering and
// session reset services the session talks to.
type Backend interface {
	Upload(ctx context.Context, paths []string) error
	Query(ctx context.Context, query, language string) (string, error)
	Clear(ctx context.Context) error
}

// QueryRequest is a prepared query submission. The language is snapshotted
// when the request is constructed, not earlier.
type QueryRequest struct {
	Query    string
	Language Language
}

// Session orchestrates the conversation: it guards submissions through the
// request lifecycle, applies optimistic updates to the log and the store,
// performs the backend call and maps its outcome back onto local state.
//
// Submissions are split into a Begin phase and a Finish phase so that an
// event loop can apply the optimistic update synchronously and run the
// network call on its own goroutine. Begin claims the busy flag and mutates
// local state; Finish performs the call and always releases the flag. The
// combined SubmitQuery/SubmitFiles helpers run both phases back to back.
//
// Failures are surfaced to the caller but optimistic updates are not rolled
// back: a failed query keeps its user message, a failed upload keeps its
// staged attachments. This mirrors the intended UX and is a known
// limitation, not an oversight.
type Session struct {
	backend   Backend
	log       *MessageLog
	store     *AttachmentStore
	lifecycle *RequestLifecycle
	logger    *Logger

	mu       sync.Mutex
	language Language
}

func NewSession(backend Backend, logger *Logger) *Session {
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &Session{
		backend:   backend,
		log:       NewMessageLog(),
		store:     NewAttachmentStore(),
		lifecycle: NewRequestLifecycle(),
		logger:    logger,
		language:  LanguageEnglish,
	}
}

// Language returns the active response language.
func (s *Session) Language() Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage changes the response language. Rejected with ErrBusy while a
// request is in flight.
func (s *Session) SetLanguage(l Language) error {
	if _, ok := ParseLanguage(string(l)); !ok {
		l = LanguageEnglish
	}
	if s.lifecycle.Busy() {
		return ErrBusy
	}
	s.mu.Lock()
	s.language = l
	s.mu.Unlock()
	return nil
}

func (s *Session) Busy() bool {
	return s.lifecycle.Busy()
}

// Messages returns the conversation so far in insertion order.
func (s *Session) Messages() []Message {
	return s.log.All()
}

// Attachments returns the documents known to this session.
func (s *Session) Attachments() []Attachment {
	return s.store.List()
}

// RemoveAttachment drops a staged attachment. Unknown ids are ignored.
func (s *Session) RemoveAttachment(id string) {
	s.store.Remove(id)
}

// BeginQuery validates and claims a query submission. Blank text fails with
// ErrEmptyQuery before anything happens; a pending request fails with
// ErrBusy. On success the user message has been appended optimistically and
// the returned request carries the language as of this moment.
func (s *Session) BeginQuery(text string) (QueryRequest, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return QueryRequest{}, ErrEmptyQuery
	}
	if err := s.lifecycle.Begin(); err != nil {
		return QueryRequest{}, err
	}
	s.log.AppendUser(trimmed)
	return QueryRequest{Query: trimmed, Language: s.Language()}, nil
}

// FinishQuery performs the backend call for a request returned by BeginQuery
// and releases the busy flag. On success the assistant's answer is appended
// verbatim and returned. On failure nothing is appended and the already
// recorded user message stays.
func (s *Session) FinishQuery(ctx context.Context, req QueryRequest) (Message, error) {
	defer s.lifecycle.Resolve()

	answer, err := s.backend.Query(ctx, req.Query, string(req.Language))
	if err != nil {
		s.logger.Error("query failed", map[string]any{"error": err.Error()})
		return Message{}, err
	}
	s.logger.Info("query answered", map[string]any{"language": string(req.Language)})
	return s.log.AppendAssistant(answer), nil
}

// SubmitQuery runs both query phases. The returned message is the assistant
// turn; ErrEmptyQuery and ErrBusy report a submission that never started.
func (s *Session) SubmitQuery(ctx context.Context, text string) (Message, error) {
	req, err := s.BeginQuery(text)
	if err != nil {
		return Message{}, err
	}
	return s.FinishQuery(ctx, req)
}

// BeginUpload stages the given files and claims the busy flag. Paths that do
// not name a readable regular file are dropped; if nothing remains the call
// is a no-op returning no attachments and no error. Staging happens before
// the network call, so the attachments are visible immediately.
func (s *Session) BeginUpload(paths []string) ([]Attachment, error) {
	blobs := make([]FileBlob, 0, len(paths))
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		blobs = append(blobs, FileBlob{Path: p, Size: st.Size()})
	}
	if len(blobs) == 0 {
		return nil, nil
	}
	if err := s.lifecycle.Begin(); err != nil {
		return nil, err
	}
	return s.store.Stage(blobs), nil
}

// FinishUpload sends the staged batch to the ingestion service and releases
// the busy flag. The attachments stay in the store whatever the outcome.
func (s *Session) FinishUpload(ctx context.Context, atts []Attachment) error {
	defer s.lifecycle.Resolve()

	paths := make([]string, len(atts))
	for i, att := range atts {
		paths[i] = att.Path
	}
	if err := s.backend.Upload(ctx, paths); err != nil {
		s.logger.Error("upload failed", map[string]any{"error": err.Error(), "count": len(paths)})
		return err
	}
	s.logger.Info("documents uploaded", map[string]any{"count": len(paths)})
	return nil
}

// SubmitFiles runs both upload phases as a single batch.
func (s *Session) SubmitFiles(ctx context.Context, paths []string) ([]Attachment, error) {
	atts, err := s.BeginUpload(paths)
	if err != nil {
		return nil, err
	}
	if len(atts) == 0 {
		return nil, nil
	}
	return atts, s.FinishUpload(ctx, atts)
}

// Teardown asks the backend to discard the server-side session and clears
// local state. Best-effort: errors are logged, never returned, because there
// is no user left to notify. Safe to call any number of times.
func (s *Session) Teardown(ctx context.Context) {
	if err := s.backend.Clear(ctx); err != nil {
		s.logger.Error("session clear failed", map[string]any{"error": err.Error()})
	}
	s.log.Clear()
	s.store.Clear()
}
