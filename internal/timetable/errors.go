package timetable

import "errors"

// ErrNotFound is returned when a slot id does not exist.
var ErrNotFound = errors.New("time slot not found")

// ErrInvalidTime is returned for malformed or inverted time ranges.
var ErrInvalidTime = errors.New("invalid time range")

// ErrInvalidDay is returned for a day outside Monday–Saturday.
var ErrInvalidDay = errors.New("invalid day")

// ConflictAxis says on which dimension a proposed slot collided.
type ConflictAxis string

const (
	// AxisClassDivision means the class+division already has a slot in that
	// time range on that day.
	AxisClassDivision ConflictAxis = "class_division"
	// AxisTeacher means the teacher is already booked elsewhere at that time,
	// regardless of class or division.
	AxisTeacher ConflictAxis = "teacher"
)

// ConflictError rejects a slot write that would overlap a committed slot. It
// carries the axis and the existing slot so callers can tell "time overlap
// within this class/division" apart from "teacher already booked elsewhere".
type ConflictError struct {
	Axis     ConflictAxis
	Existing TimeSlot
}

func (e *ConflictError) Error() string {
	switch e.Axis {
	case AxisTeacher:
		return "teacher is already booked " + string(e.Existing.Day) + " " + e.Existing.Period()
	default:
		return "time overlap within this class/division on " + string(e.Existing.Day) + " " + e.Existing.Period()
	}
}

// AsConflict unwraps err into a *ConflictError if it is one.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
