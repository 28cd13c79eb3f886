package roster

// Department tags every class and user with the owning academic department.
type Department string

// SubjectType distinguishes theory lectures from lab practicals.
type SubjectType string

const (
	SubjectTheory    SubjectType = "theory"
	SubjectPractical SubjectType = "practical"
)

// Valid reports whether t is one of the two known subject types.
func (t SubjectType) Valid() bool {
	return t == SubjectTheory || t == SubjectPractical
}

// Division is a lettered subgroup of a class, e.g. "A" or "B".
type Division struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Class is a named cohort. The same name may appear on several records, one
// per division or academic year; grouping by name is what propagates the year
// coordinator across a cohort.
type Class struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Department      Department `json:"department"`
	Divisions       []Division `json:"divisions"`
	ClassTeacher    string     `json:"class_teacher,omitempty"`
	YearCoordinator string     `json:"year_coordinator,omitempty"`
}

// HasDivision reports whether the class carries the given division id.
func (c Class) HasDivision(divisionID string) bool {
	for _, d := range c.Divisions {
		if d.ID == divisionID {
			return true
		}
	}
	return false
}

// Subject is a theory or practical course offering tied to one class and a
// division scope.
type Subject struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Code         string        `json:"code"`
	ClassID      string        `json:"class_id"`
	Scope        DivisionScope `json:"scope"`
	FacultyEmail string        `json:"faculty_email,omitempty"`
	Type         SubjectType   `json:"type"`
}

// Practical is the legacy lab entity kept alongside Subject. It carries the
// same division scope so membership is fixed at write time instead of being
// re-inferred on every read.
type Practical struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ClassID      string        `json:"class_id"`
	Scope        DivisionScope `json:"scope"`
	TeacherEmail string        `json:"teacher_email,omitempty"`
}

// Student belongs to one class and division. Email, regNo and mobile are each
// unique across all students.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RegNo      string `json:"reg_no"`
	Mobile     string `json:"mobile"`
	RollNumber string `json:"roll_number,omitempty"`
	Year       int    `json:"year,omitempty"`
	ClassID    string `json:"class_id"`
	DivisionID string `json:"division_id"`

	MentorEmail string `json:"mentor_email,omitempty"`

	SessionsAttended       int     `json:"sessions_attended"`
	TotalSessions          int     `json:"total_sessions"`
	AttendancePercent      float64 `json:"attendance_percent"`
	MentorSessionsAttended int     `json:"mentor_sessions_attended"`
	TotalMentorSessions    int     `json:"total_mentor_sessions"`
}
