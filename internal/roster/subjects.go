package roster

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// SubjectPatch carries the mutable subject fields; nil means leave unchanged.
type SubjectPatch struct {
	Name         *string
	Code         *string
	Scope        *DivisionScope
	FacultyEmail *string
}

// PracticalPatch mirrors SubjectPatch for the legacy practical entity.
type PracticalPatch struct {
	Name         *string
	Scope        *DivisionScope
	TeacherEmail *string
}

// AddSubject inserts a subject after resolving its division scope against the
// owning class.
func (s *Store) AddSubject(sub Subject) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sub.Type.Valid() {
		return "", fmt.Errorf("invalid subject type %q", sub.Type)
	}
	if err := s.checkScope(sub.ClassID, sub.Scope); err != nil {
		return "", err
	}

	sub.ID = uuid.NewString()
	s.subjects[sub.ID] = sub
	return sub.ID, nil
}

// UpdateSubject applies a patch, re-resolving the scope when it changes.
func (s *Store) UpdateSubject(subjectID string, patch SubjectPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subjects[subjectID]
	if !ok {
		return ErrNotFound
	}
	if patch.Scope != nil {
		if err := s.checkScope(sub.ClassID, *patch.Scope); err != nil {
			return err
		}
		sub.Scope = *patch.Scope
	}
	if patch.Name != nil {
		sub.Name = *patch.Name
	}
	if patch.Code != nil {
		sub.Code = *patch.Code
	}
	if patch.FacultyEmail != nil {
		sub.FacultyEmail = *patch.FacultyEmail
	}
	s.subjects[subjectID] = sub
	return nil
}

// DeleteSubject removes a subject.
func (s *Store) DeleteSubject(subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subjects[subjectID]; !ok {
		return ErrNotFound
	}
	delete(s.subjects, subjectID)
	return nil
}

// SubjectByID returns one subject.
func (s *Store) SubjectByID(subjectID string) (Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subjects[subjectID]
	if !ok {
		return Subject{}, ErrNotFound
	}
	return sub, nil
}

// SubjectsForClass lists a class's subjects sorted by name. A non-empty
// divisionID narrows the list to subjects whose scope covers that division.
func (s *Store) SubjectsForClass(classID, divisionID string) []Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Subject
	for _, sub := range s.subjects {
		if sub.ClassID != classID {
			continue
		}
		if divisionID != "" && !sub.Scope.Includes(divisionID) {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SubjectsForTeacher lists every subject assigned to the faculty email.
func (s *Store) SubjectsForTeacher(email string) []Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Subject
	for _, sub := range s.subjects {
		if sub.FacultyEmail == email {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AssignTeacherToSubject sets ("" clears) the subject's faculty.
func (s *Store) AssignTeacherToSubject(subjectID, email string) error {
	return s.UpdateSubject(subjectID, SubjectPatch{FacultyEmail: &email})
}

// AddPractical inserts a practical after resolving its division scope.
func (s *Store) AddPractical(p Practical) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkScope(p.ClassID, p.Scope); err != nil {
		return "", err
	}
	p.ID = uuid.NewString()
	s.practicals[p.ID] = p
	return p.ID, nil
}

// UpdatePractical applies a patch, re-resolving the scope when it changes.
func (s *Store) UpdatePractical(practicalID string, patch PracticalPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.practicals[practicalID]
	if !ok {
		return ErrNotFound
	}
	if patch.Scope != nil {
		if err := s.checkScope(p.ClassID, *patch.Scope); err != nil {
			return err
		}
		p.Scope = *patch.Scope
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.TeacherEmail != nil {
		p.TeacherEmail = *patch.TeacherEmail
	}
	s.practicals[practicalID] = p
	return nil
}

// DeletePractical removes a practical.
func (s *Store) DeletePractical(practicalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.practicals[practicalID]; !ok {
		return ErrNotFound
	}
	delete(s.practicals, practicalID)
	return nil
}

// PracticalByID returns one practical.
func (s *Store) PracticalByID(practicalID string) (Practical, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.practicals[practicalID]
	if !ok {
		return Practical{}, ErrNotFound
	}
	return p, nil
}

// PracticalsForClass lists a class's practicals, optionally narrowed to a
// division.
func (s *Store) PracticalsForClass(classID, divisionID string) []Practical {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Practical
	for _, p := range s.practicals {
		if p.ClassID != classID {
			continue
		}
		if divisionID != "" && !p.Scope.Includes(divisionID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PracticalsForTeacher lists every practical assigned to the teacher email.
func (s *Store) PracticalsForTeacher(email string) []Practical {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Practical
	for _, p := range s.practicals {
		if p.TeacherEmail == email {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AssignTeacherToPractical sets ("" clears) the practical's teacher.
func (s *Store) AssignTeacherToPractical(practicalID, email string) error {
	return s.UpdatePractical(practicalID, PracticalPatch{TeacherEmail: &email})
}

// checkScope validates a scope and verifies every division it names belongs
// to the class. Caller holds the lock.
func (s *Store) checkScope(classID string, scope DivisionScope) error {
	c, ok := s.classes[classID]
	if !ok {
		return ErrNotFound
	}
	if err := scope.Validate(); err != nil {
		return err
	}
	for _, id := range scope.divisionIDs() {
		if !c.HasDivision(id) {
			return fmt.Errorf("division %s does not belong to class %s", id, c.Name)
		}
	}
	return nil
}
