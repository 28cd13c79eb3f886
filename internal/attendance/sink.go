package attendance

import (
	"context"
	"sync"
)

// MemorySink keeps records in process memory, in submission order.
type MemorySink struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Submit appends the batch.
func (m *MemorySink) Submit(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

// ListForStudent returns a student's records, newest first. An empty
// subjectID matches every subject.
func (m *MemorySink) ListForStudent(_ context.Context, studentID, subjectID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.StudentID != studentID {
			continue
		}
		if subjectID != "" && r.SubjectID != subjectID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ListForSession returns the records submitted under one session key.
func (m *MemorySink) ListForSession(_ context.Context, sessionKey string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, r := range m.records {
		if r.SessionKey == sessionKey {
			out = append(out, r)
		}
	}
	return out, nil
}
