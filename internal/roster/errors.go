package roster

import "errors"

// ErrNotFound is returned when an id does not resolve to a record.
var ErrNotFound = errors.New("not found")

// ErrDuplicateClassDivision is returned when a class+division name pair
// already exists within the department.
var ErrDuplicateClassDivision = errors.New("a class with this division already exists in the department")

// ErrUnknownTeacher is returned when an assignment names a faculty email the
// caller could not vouch for.
var ErrUnknownTeacher = errors.New("teacher not found in department")

// DuplicateFieldError reports which student field collided with an existing
// record.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return "a student with this " + e.Field + " already exists"
}
