// Package attendance turns a resolved session into durable attendance
// records, enforcing that each session is submitted at most once.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/metrics"
	"classtrack/internal/roster"
	"classtrack/internal/session"
)

// ErrDuplicateSession rejects a submission for a session that was already
// marked.
var ErrDuplicateSession = errors.New("attendance already marked for this session")

// ErrNoEntries rejects an empty submission.
var ErrNoEntries = errors.New("no attendance entries")

// Status is a student's presence in one session.
type Status string

const (
	Present Status = "present"
	Absent  Status = "absent"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s == Present || s == Absent }

// Session identifies the teaching occurrence a batch of records belongs to.
// SlotID is a real foreign key into the timetable, not a loose
// date/period/subject convention.
type Session struct {
	ClassID     string             `json:"class_id"`
	DivisionID  string             `json:"division_id"`
	SubjectID   string             `json:"subject_id"`
	SubjectType roster.SubjectType `json:"subject_type"`
	SlotID      string             `json:"slot_id"`
	Period      string             `json:"period"`
	Date        time.Time          `json:"date"`
	MarkedBy    string             `json:"marked_by"`
}

// Key returns the session's lock key.
func (s Session) Key() string {
	return session.Key(s.ClassID, s.DivisionID, s.SubjectID, s.SlotID, s.Date)
}

// Entry is one student's mark within a submission.
type Entry struct {
	StudentID string `json:"student_id"`
	Status    Status `json:"status"`
	Remarks   string `json:"remarks,omitempty"`
}

// Record is one student's attendance for one session.
type Record struct {
	ID          string             `json:"id"`
	StudentID   string             `json:"student_id"`
	SubjectID   string             `json:"subject_id"`
	SubjectType roster.SubjectType `json:"subject_type"`
	ClassID     string             `json:"class_id"`
	DivisionID  string             `json:"division_id"`
	SlotID      string             `json:"slot_id"`
	SessionKey  string             `json:"session_key"`
	Date        string             `json:"date"`
	Period      string             `json:"period"`
	Status      Status             `json:"status"`
	Remarks     string             `json:"remarks,omitempty"`
	MarkedBy    string             `json:"marked_by"`
	MarkedAt    time.Time          `json:"marked_at"`
}

// Sink receives finished records. The memory sink backs dev and tests; the
// postgres sink gives records a durable home.
type Sink interface {
	Submit(ctx context.Context, records []Record) error
	ListForStudent(ctx context.Context, studentID, subjectID string) ([]Record, error)
	ListForSession(ctx context.Context, sessionKey string) ([]Record, error)
}

// StatsRecorder is notified once per student per accepted session so rolling
// attendance counters stay current. The roster store implements it.
type StatsRecorder interface {
	RecordSessionResult(studentID string, present bool) error
}

// Service coordinates the once-per-session lock, the sink and the per-student
// stats.
type Service struct {
	sink  Sink
	lock  session.Lock
	stats StatsRecorder
}

// NewService wires a service. stats may be nil when no counters are kept.
func NewService(sink Sink, lock session.Lock, stats StatsRecorder) *Service {
	return &Service{sink: sink, lock: lock, stats: stats}
}

// Submit writes one record per entry for the session, then marks the session
// so a second submission is rejected with ErrDuplicateSession. The duplicate
// check keys on the full session identity (class, division, subject, slot,
// date), so a period label reused by another class can never collide.
func (s *Service) Submit(ctx context.Context, sess Session, entries []Entry) ([]Record, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	for _, e := range entries {
		if !e.Status.Valid() {
			return nil, fmt.Errorf("invalid status %q for student %s", e.Status, e.StudentID)
		}
	}

	key := sess.Key()
	marked, err := s.lock.HasBeenMarked(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("session lock: %w", err)
	}
	if marked {
		metrics.AttendanceSubmissions.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateSession
	}

	now := time.Now().UTC()
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, Record{
			ID:          uuid.NewString(),
			StudentID:   e.StudentID,
			SubjectID:   sess.SubjectID,
			SubjectType: sess.SubjectType,
			ClassID:     sess.ClassID,
			DivisionID:  sess.DivisionID,
			SlotID:      sess.SlotID,
			SessionKey:  key,
			Date:        sess.Date.Format(session.DateLayout),
			Period:      sess.Period,
			Status:      e.Status,
			Remarks:     e.Remarks,
			MarkedBy:    sess.MarkedBy,
			MarkedAt:    now,
		})
	}

	if err := s.sink.Submit(ctx, records); err != nil {
		return nil, fmt.Errorf("submit records: %w", err)
	}
	if err := s.lock.MarkAsMarked(ctx, key); err != nil {
		return nil, fmt.Errorf("mark session: %w", err)
	}

	if s.stats != nil {
		for _, e := range entries {
			if err := s.stats.RecordSessionResult(e.StudentID, e.Status == Present); err != nil {
				// Counters are advisory; a missing student must not void the
				// committed records.
				continue
			}
		}
	}

	metrics.AttendanceSubmissions.WithLabelValues("accepted").Inc()
	return records, nil
}

// HasBeenMarked reports whether the session was already submitted.
func (s *Service) HasBeenMarked(ctx context.Context, sess Session) (bool, error) {
	return s.lock.HasBeenMarked(ctx, sess.Key())
}

// RecordsForStudent lists a student's records, optionally for one subject.
func (s *Service) RecordsForStudent(ctx context.Context, studentID, subjectID string) ([]Record, error) {
	return s.sink.ListForStudent(ctx, studentID, subjectID)
}

// RecordsForSession lists the records submitted under one session key.
func (s *Service) RecordsForSession(ctx context.Context, sessionKey string) ([]Record, error) {
	return s.sink.ListForSession(ctx, sessionKey)
}
