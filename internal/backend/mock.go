package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// Mock simulates the backend for offline runs and tests. It remembers what
// was uploaded and answers queries with a canned summary of that state.
type Mock struct {
	mu       sync.Mutex
	uploaded []string
	queries  int
	cleared  int
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Upload(_ context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paths {
		m.uploaded = append(m.uploaded, filepath.Base(p))
	}
	return nil
}

func (m *Mock) Query(_ context.Context, query, language string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++

	if language == "ne" {
		if len(m.uploaded) == 0 {
			return "कुनै कागजात अपलोड गरिएको छैन। यो नक्कली जवाफ हो।", nil
		}
		return fmt.Sprintf("%d कागजातका आधारमा नक्कली जवाफ: %q", len(m.uploaded), query), nil
	}
	if len(m.uploaded) == 0 {
		return fmt.Sprintf("Mock answer (no documents uploaded yet): %q", query), nil
	}
	return fmt.Sprintf("Mock answer based on %d document(s) %v: %q", len(m.uploaded), m.uploaded, query), nil
}

func (m *Mock) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = nil
	m.cleared++
	return nil
}

// Uploaded reports the base names of every uploaded file, in order.
func (m *Mock) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.uploaded))
	copy(out, m.uploaded)
	return out
}

// ClearCount reports how many times Clear has been called.
func (m *Mock) ClearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleared
}
