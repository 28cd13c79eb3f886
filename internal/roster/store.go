package roster

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store holds the department catalog: classes, subjects, practicals and
// students. All state lives in process memory; every mutation validates and
// applies under one lock so readers never observe a half-written catalog.
type Store struct {
	mu         sync.RWMutex
	classes    map[string]Class
	subjects   map[string]Subject
	practicals map[string]Practical
	students   map[string]Student
}

// NewStore creates an empty catalog.
func NewStore() *Store {
	return &Store{
		classes:    make(map[string]Class),
		subjects:   make(map[string]Subject),
		practicals: make(map[string]Practical),
		students:   make(map[string]Student),
	}
}

// ClassPatch carries the mutable class fields; nil means leave unchanged.
type ClassPatch struct {
	Name            *string
	Divisions       *[]Division
	ClassTeacher    *string
	YearCoordinator *string
}

// AddClass inserts a class. The (name, division name) pair must be unique
// within the department. When another class with the same name already has a
// year coordinator, the new record inherits it so the cohort stays under one
// coordinator.
func (s *Store) AddClass(c Class) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, div := range c.Divisions {
		if s.duplicateClassDivision(c.Department, c.Name, div.Name, "") {
			return "", ErrDuplicateClassDivision
		}
	}

	if c.YearCoordinator == "" {
		for _, existing := range s.classes {
			if existing.Name == c.Name && existing.Department == c.Department && existing.YearCoordinator != "" {
				c.YearCoordinator = existing.YearCoordinator
				break
			}
		}
	}

	c.ID = uuid.NewString()
	c.Divisions = append([]Division(nil), c.Divisions...)
	s.classes[c.ID] = c
	return c.ID, nil
}

// UpdateClass applies a patch. Renames and division changes re-run the
// duplicate class+division check against every other class.
func (s *Store) UpdateClass(classID string, patch ClassPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.classes[classID]
	if !ok {
		return ErrNotFound
	}

	name := c.Name
	if patch.Name != nil {
		name = *patch.Name
	}
	divisions := c.Divisions
	if patch.Divisions != nil {
		divisions = *patch.Divisions
	}
	if patch.Name != nil || patch.Divisions != nil {
		for _, div := range divisions {
			if s.duplicateClassDivision(c.Department, name, div.Name, classID) {
				return ErrDuplicateClassDivision
			}
		}
	}

	c.Name = name
	c.Divisions = append([]Division(nil), divisions...)
	if patch.ClassTeacher != nil {
		c.ClassTeacher = *patch.ClassTeacher
	}
	if patch.YearCoordinator != nil {
		c.YearCoordinator = *patch.YearCoordinator
	}
	s.classes[classID] = c
	return nil
}

// DeleteClass removes a class and every student enrolled in it.
func (s *Store) DeleteClass(classID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[classID]; !ok {
		return ErrNotFound
	}
	delete(s.classes, classID)
	for id, st := range s.students {
		if st.ClassID == classID {
			delete(s.students, id)
		}
	}
	return nil
}

// ClassByID returns one class.
func (s *Store) ClassByID(classID string) (Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.classes[classID]
	if !ok {
		return Class{}, ErrNotFound
	}
	return cloneClass(c), nil
}

// ClassesForDepartment lists a department's classes sorted by name.
func (s *Store) ClassesForDepartment(dept Department) []Class {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Class
	for _, c := range s.classes {
		if c.Department == dept {
			out = append(out, cloneClass(c))
		}
	}
	sortClasses(out)
	return out
}

// UniqueClassNames returns one class per distinct name in the department,
// used to populate cohort dropdowns where divisions collapse into one entry.
func (s *Store) UniqueClassNames(dept Department) []Class {
	classes := s.ClassesForDepartment(dept)
	seen := make(map[string]bool, len(classes))
	out := classes[:0]
	for _, c := range classes {
		if !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c)
		}
	}
	return out
}

// DivisionsForClassName collects the divisions of every class sharing the
// name, deduplicated by division id.
func (s *Store) DivisionsForClassName(dept Department, name string) []Division {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []Division
	for _, c := range s.classes {
		if c.Department != dept || c.Name != name {
			continue
		}
		for _, d := range c.Divisions {
			if !seen[d.ID] {
				seen[d.ID] = true
				out = append(out, d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ClassForNameAndDivision finds the class record of a cohort that owns the
// given division. The attendance flow uses it to turn a (cohort name,
// division) selection back into a concrete class id.
func (s *Store) ClassForNameAndDivision(dept Department, name, divisionID string) (Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.classes {
		if c.Department == dept && c.Name == name && c.HasDivision(divisionID) {
			return cloneClass(c), nil
		}
	}
	return Class{}, ErrNotFound
}

// SetClassTeacher assigns or clears ("" clears) the class teacher.
func (s *Store) SetClassTeacher(classID, teacherEmail string) error {
	return s.UpdateClass(classID, ClassPatch{ClassTeacher: &teacherEmail})
}

// SetYearCoordinator assigns the coordinator on every class sharing the
// target's name within its department, keeping the cohort consistent.
func (s *Store) SetYearCoordinator(classID, coordinatorEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.classes[classID]
	if !ok {
		return ErrNotFound
	}
	for id, c := range s.classes {
		if c.Name == target.Name && c.Department == target.Department {
			c.YearCoordinator = coordinatorEmail
			s.classes[id] = c
		}
	}
	return nil
}

// duplicateClassDivision reports whether another class in the department has
// the same name and a division with the same name. Caller holds the lock.
func (s *Store) duplicateClassDivision(dept Department, className, divisionName, excludeID string) bool {
	for id, c := range s.classes {
		if id == excludeID || c.Department != dept || c.Name != className {
			continue
		}
		for _, d := range c.Divisions {
			if d.Name == divisionName {
				return true
			}
		}
	}
	return false
}

func cloneClass(c Class) Class {
	c.Divisions = append([]Division(nil), c.Divisions...)
	return c
}

func sortClasses(classes []Class) {
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Name != classes[j].Name {
			return classes[i].Name < classes[j].Name
		}
		return classes[i].ID < classes[j].ID
	})
}
