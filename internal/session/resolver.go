// Package session derives the attendance sessions a faculty member may act
// on: it narrows the committed timetable down to "my slot, today" and builds
// the stable key that makes a session markable exactly once.
package session

import (
	"sort"
	"time"

	"classtrack/internal/roster"
	"classtrack/internal/timetable"
)

// Query identifies whose session is being resolved and for when. Date is
// explicit so the resolver stays a pure function of its inputs.
type Query struct {
	TeacherEmail string
	ClassID      string
	DivisionID   string
	SubjectID    string
	SubjectType  roster.SubjectType
	Date         time.Time
}

// ResolveSlots filters slots down to those the querying teacher may mark
// attendance for on the query date: class, division, subject, subject type,
// teacher and weekday must all match. The strict AND keeps a teacher from
// marking another teacher's slot, another division's occurrence of the same
// subject, or a day other than the query date. Results come back sorted by
// start time; an empty result is not an error, it means no eligible session.
func ResolveSlots(q Query, slots []timetable.TimeSlot) []timetable.TimeSlot {
	day, ok := timetable.DayOf(q.Date)
	if !ok {
		// Sunday: the six-day week has no sessions.
		return nil
	}

	var out []timetable.TimeSlot
	for _, slot := range slots {
		if slot.ClassID == q.ClassID &&
			slot.DivisionID == q.DivisionID &&
			slot.SubjectID == q.SubjectID &&
			slot.SubjectType == q.SubjectType &&
			slot.TeacherEmail == q.TeacherEmail &&
			slot.Day == day {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}
