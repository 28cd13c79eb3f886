package roster

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// StudentPatch carries the mutable student fields; nil means leave unchanged.
type StudentPatch struct {
	Name       *string
	Email      *string
	RegNo      *string
	Mobile     *string
	RollNumber *string
	Year       *int
	ClassID    *string
	DivisionID *string
}

// AddStudent inserts a student. Email, regNo and mobile must each be unique
// across all students; empty values are not checked.
func (s *Store) AddStudent(st Student) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStudentDuplicates(st.Email, st.RegNo, st.Mobile, ""); err != nil {
		return "", err
	}
	st.ID = uuid.NewString()
	s.students[st.ID] = st
	return st.ID, nil
}

// UpdateStudent applies a patch, re-checking uniqueness against every other
// student.
func (s *Store) UpdateStudent(studentID string, patch StudentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[studentID]
	if !ok {
		return ErrNotFound
	}

	email, regNo, mobile := st.Email, st.RegNo, st.Mobile
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.RegNo != nil {
		regNo = *patch.RegNo
	}
	if patch.Mobile != nil {
		mobile = *patch.Mobile
	}
	if err := s.checkStudentDuplicates(email, regNo, mobile, studentID); err != nil {
		return err
	}

	st.Email, st.RegNo, st.Mobile = email, regNo, mobile
	if patch.Name != nil {
		st.Name = *patch.Name
	}
	if patch.RollNumber != nil {
		st.RollNumber = *patch.RollNumber
	}
	if patch.Year != nil {
		st.Year = *patch.Year
	}
	if patch.ClassID != nil {
		st.ClassID = *patch.ClassID
	}
	if patch.DivisionID != nil {
		st.DivisionID = *patch.DivisionID
	}
	s.students[studentID] = st
	return nil
}

// DeleteStudent removes a student.
func (s *Store) DeleteStudent(studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[studentID]; !ok {
		return ErrNotFound
	}
	delete(s.students, studentID)
	return nil
}

// StudentByID returns one student.
func (s *Store) StudentByID(studentID string) (Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[studentID]
	if !ok {
		return Student{}, ErrNotFound
	}
	return st, nil
}

// StudentsForClass lists a class's students sorted by name. A non-empty
// divisionID narrows to one division.
func (s *Store) StudentsForClass(classID, divisionID string) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Student
	for _, st := range s.students {
		if st.ClassID != classID {
			continue
		}
		if divisionID != "" && st.DivisionID != divisionID {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StudentsForDepartment lists every student enrolled in the department's
// classes.
func (s *Store) StudentsForDepartment(dept Department) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Student
	for _, st := range s.students {
		if c, ok := s.classes[st.ClassID]; ok && c.Department == dept {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AssignMentor sets ("" clears) a student's mentor.
func (s *Store) AssignMentor(studentID, mentorEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[studentID]
	if !ok {
		return ErrNotFound
	}
	st.MentorEmail = mentorEmail
	s.students[studentID] = st
	return nil
}

// MenteesForMentor lists the students mentored by the given faculty email.
func (s *Store) MenteesForMentor(mentorEmail string) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Student
	for _, st := range s.students {
		if st.MentorEmail == mentorEmail {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RecordSessionResult bumps a student's attendance counters after a session
// is marked.
func (s *Store) RecordSessionResult(studentID string, present bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[studentID]
	if !ok {
		return ErrNotFound
	}
	st.TotalSessions++
	if present {
		st.SessionsAttended++
	}
	st.AttendancePercent = percent(st.SessionsAttended, st.TotalSessions)
	s.students[studentID] = st
	return nil
}

// RecordMentorSession bumps a student's mentor-session counters.
func (s *Store) RecordMentorSession(studentID string, present bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[studentID]
	if !ok {
		return ErrNotFound
	}
	st.TotalMentorSessions++
	if present {
		st.MentorSessionsAttended++
	}
	s.students[studentID] = st
	return nil
}

// checkStudentDuplicates enforces unique email, regNo and mobile. Caller
// holds the lock.
func (s *Store) checkStudentDuplicates(email, regNo, mobile, excludeID string) error {
	for id, other := range s.students {
		if id == excludeID {
			continue
		}
		switch {
		case email != "" && other.Email == email:
			return &DuplicateFieldError{Field: "email"}
		case regNo != "" && other.RegNo == regNo:
			return &DuplicateFieldError{Field: "registration number"}
		case mobile != "" && other.Mobile == mobile:
			return &DuplicateFieldError{Field: "mobile number"}
		}
	}
	return nil
}

func percent(attended, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*10000) / 100
}
