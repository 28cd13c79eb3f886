package timetable

import (
	"fmt"
	"time"

	"classtrack/internal/roster"
)

// Day is a teaching weekday. The timetable runs Monday through Saturday;
// Sunday is never a valid slot day.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// Days lists the six teaching days in week order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Valid reports whether d is one of the six teaching days.
func (d Day) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// DayOf maps a calendar date to its teaching day. ok is false on Sunday.
func DayOf(t time.Time) (Day, bool) {
	if t.Weekday() == time.Sunday {
		return "", false
	}
	return Day(t.Weekday().String()), true
}

// TimeSlot is one weekly occurrence of a subject for a class+division, with
// an assigned teacher and a [StartTime, EndTime) range in zero-padded 24h
// "HH:MM" form. The zero-padded format makes lexicographic comparison agree
// with chronological order within a day; cross-midnight slots are not
// supported.
type TimeSlot struct {
	ID           string             `json:"id"`
	ClassID      string             `json:"class_id"`
	DivisionID   string             `json:"division_id"`
	Day          Day                `json:"day"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	SubjectID    string             `json:"subject_id,omitempty"`
	SubjectType  roster.SubjectType `json:"subject_type"`
	TeacherEmail string             `json:"teacher_email,omitempty"`
}

// Period renders the slot's time range for display and record keeping.
func (ts TimeSlot) Period() string {
	return ts.StartTime + " - " + ts.EndTime
}

// overlaps reports whether two half-open [start, end) ranges intersect.
// Back-to-back slots (one ending exactly when the next starts) do not.
func overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// validateTimes checks the "HH:MM" format of both bounds and that the slot
// has positive length.
func validateTimes(start, end string) error {
	if !validClock(start) {
		return fmt.Errorf("%w: start time %q", ErrInvalidTime, start)
	}
	if !validClock(end) {
		return fmt.Errorf("%w: end time %q", ErrInvalidTime, end)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidTime, start, end)
	}
	return nil
}

// validClock accepts zero-padded 24-hour "HH:MM".
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := (s[0]-'0')*10 + (s[1] - '0')
	mm := (s[3]-'0')*10 + (s[4] - '0')
	return hh < 24 && mm < 60
}
