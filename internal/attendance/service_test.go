package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"classtrack/internal/roster"
	"classtrack/internal/session"
)

type fakeStats struct {
	results map[string]bool
}

func (f *fakeStats) RecordSessionResult(studentID string, present bool) error {
	if f.results == nil {
		f.results = make(map[string]bool)
	}
	f.results[studentID] = present
	return nil
}

var testDate = time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC) // Monday

func testSession() Session {
	return Session{
		ClassID:     "C1",
		DivisionID:  "D1",
		SubjectID:   "SUB-1",
		SubjectType: roster.SubjectTheory,
		SlotID:      "TS-1",
		Period:      "09:00 - 10:00",
		Date:        testDate,
		MarkedBy:    "a@x.edu",
	}
}

func TestSubmitWritesOneRecordPerEntry(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()
	stats := &fakeStats{}
	svc := NewService(sink, session.NewMemoryLock(), stats)

	entries := []Entry{
		{StudentID: "S1", Status: Present},
		{StudentID: "S2", Status: Absent, Remarks: "medical"},
	}
	records, err := svc.Submit(ctx, testSession(), entries)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	wantKey := "C1|D1|SUB-1|TS-1|2026-01-05"
	for _, r := range records {
		if r.SessionKey != wantKey {
			t.Errorf("record %s session key = %q, want %q", r.StudentID, r.SessionKey, wantKey)
		}
		if r.SlotID != "TS-1" || r.Date != "2026-01-05" || r.MarkedBy != "a@x.edu" {
			t.Errorf("record fields off: %+v", r)
		}
		if r.ID == "" || r.MarkedAt.IsZero() {
			t.Errorf("record %s missing id or timestamp", r.StudentID)
		}
	}

	stored, _ := sink.ListForSession(ctx, wantKey)
	if len(stored) != 2 {
		t.Errorf("sink holds %d records, want 2", len(stored))
	}
	if got := stats.results["S1"]; !got {
		t.Error("S1 not recorded present")
	}
	if got, ok := stats.results["S2"]; !ok || got {
		t.Error("S2 not recorded absent")
	}
}

func TestSubmitDuplicateSessionRejected(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()
	svc := NewService(sink, session.NewMemoryLock(), nil)

	entries := []Entry{{StudentID: "S1", Status: Present}}
	if _, err := svc.Submit(ctx, testSession(), entries); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	_, err := svc.Submit(ctx, testSession(), entries)
	if !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("second Submit = %v, want ErrDuplicateSession", err)
	}

	stored, _ := sink.ListForSession(ctx, testSession().Key())
	if len(stored) != 1 {
		t.Errorf("duplicate submission reached the sink: %d records", len(stored))
	}
}

func TestSubmitSameSlotNextWeekAllowed(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemorySink(), session.NewMemoryLock(), nil)

	entries := []Entry{{StudentID: "S1", Status: Present}}
	if _, err := svc.Submit(ctx, testSession(), entries); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	next := testSession()
	next.Date = testDate.AddDate(0, 0, 7)
	if _, err := svc.Submit(ctx, next, entries); err != nil {
		t.Fatalf("next week's Submit: %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemorySink(), session.NewMemoryLock(), nil)

	if _, err := svc.Submit(ctx, testSession(), nil); !errors.Is(err, ErrNoEntries) {
		t.Errorf("empty entries = %v, want ErrNoEntries", err)
	}
	_, err := svc.Submit(ctx, testSession(), []Entry{{StudentID: "S1", Status: "late"}})
	if err == nil {
		t.Error("invalid status accepted")
	}
}

func TestRecordsForStudentFiltersSubject(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()
	svc := NewService(sink, session.NewMemoryLock(), nil)

	first := testSession()
	if _, err := svc.Submit(ctx, first, []Entry{{StudentID: "S1", Status: Present}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second := testSession()
	second.SubjectID = "SUB-2"
	second.SlotID = "TS-2"
	if _, err := svc.Submit(ctx, second, []Entry{{StudentID: "S1", Status: Absent}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	all, _ := svc.RecordsForStudent(ctx, "S1", "")
	if len(all) != 2 {
		t.Errorf("all records = %d, want 2", len(all))
	}
	one, _ := svc.RecordsForStudent(ctx, "S1", "SUB-2")
	if len(one) != 1 || one[0].SubjectID != "SUB-2" {
		t.Errorf("filtered records = %v, want one SUB-2 record", one)
	}
}
