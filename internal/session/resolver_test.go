package session

import (
	"reflect"
	"testing"
	"time"

	"classtrack/internal/roster"
	"classtrack/internal/timetable"
)

// 2026-01-05 is a Monday, 2026-01-04 a Sunday.
var (
	monday = time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, time.January, 4, 8, 0, 0, 0, time.UTC)
)

func baseQuery() Query {
	return Query{
		TeacherEmail: "a@x.edu",
		ClassID:      "C1",
		DivisionID:   "D1",
		SubjectID:    "SUB-1",
		SubjectType:  roster.SubjectTheory,
		Date:         monday,
	}
}

func matching(id string, start, end string) timetable.TimeSlot {
	return timetable.TimeSlot{
		ID:           id,
		ClassID:      "C1",
		DivisionID:   "D1",
		Day:          timetable.Monday,
		StartTime:    start,
		EndTime:      end,
		SubjectID:    "SUB-1",
		SubjectType:  roster.SubjectTheory,
		TeacherEmail: "a@x.edu",
	}
}

func TestResolveSlotsStrictMatch(t *testing.T) {
	match := matching("ts-1", "09:00", "10:00")

	otherTeacher := match
	otherTeacher.ID = "ts-2"
	otherTeacher.TeacherEmail = "b@x.edu"

	otherDivision := match
	otherDivision.ID = "ts-3"
	otherDivision.DivisionID = "D2"

	otherSubject := match
	otherSubject.ID = "ts-4"
	otherSubject.SubjectID = "SUB-2"

	otherType := match
	otherType.ID = "ts-5"
	otherType.SubjectType = roster.SubjectPractical

	otherDay := match
	otherDay.ID = "ts-6"
	otherDay.Day = timetable.Tuesday

	slots := []timetable.TimeSlot{otherTeacher, otherDivision, otherSubject, otherType, otherDay, match}

	got := ResolveSlots(baseQuery(), slots)
	if len(got) != 1 || got[0].ID != "ts-1" {
		t.Fatalf("ResolveSlots = %v, want only ts-1", got)
	}
}

// A slot taught by teacher B must never resolve for teacher A even when
// every other field lines up.
func TestResolveSlotsTeacherExclusivity(t *testing.T) {
	foreign := matching("ts-b", "09:00", "10:00")
	foreign.TeacherEmail = "b@x.edu"

	got := ResolveSlots(baseQuery(), []timetable.TimeSlot{foreign})
	if len(got) != 0 {
		t.Fatalf("resolved another teacher's slot: %v", got)
	}
}

func TestResolveSlotsSundayEmpty(t *testing.T) {
	q := baseQuery()
	q.Date = sunday

	got := ResolveSlots(q, []timetable.TimeSlot{matching("ts-1", "09:00", "10:00")})
	if len(got) != 0 {
		t.Fatalf("Sunday resolved %d slots, want 0", len(got))
	}
}

func TestResolveSlotsSortedAndDeterministic(t *testing.T) {
	slots := []timetable.TimeSlot{
		matching("ts-late", "14:00", "15:00"),
		matching("ts-early", "08:00", "09:00"),
		matching("ts-mid", "11:00", "12:00"),
	}

	first := ResolveSlots(baseQuery(), slots)
	second := ResolveSlots(baseQuery(), slots)

	wantOrder := []string{"ts-early", "ts-mid", "ts-late"}
	for i, id := range wantOrder {
		if first[i].ID != id {
			t.Errorf("first[%d] = %s, want %s", i, first[i].ID, id)
		}
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two identical resolutions differ")
	}
}

func TestResolveSlotsEmptyInput(t *testing.T) {
	if got := ResolveSlots(baseQuery(), nil); len(got) != 0 {
		t.Fatalf("ResolveSlots(nil) = %v, want empty", got)
	}
}
