package roster

import (
	"errors"
	"testing"
)

const dept = Department("Computer Engineering")

func addClass(t *testing.T, s *Store, name, divisionName string) (classID, divisionID string) {
	t.Helper()
	divisionID = "div-" + name + "-" + divisionName
	id, err := s.AddClass(Class{
		Name:       name,
		Department: dept,
		Divisions:  []Division{{ID: divisionID, Name: divisionName}},
	})
	if err != nil {
		t.Fatalf("AddClass(%s/%s): %v", name, divisionName, err)
	}
	return id, divisionID
}

func TestAddClassDuplicateDivisionRejected(t *testing.T) {
	s := NewStore()
	addClass(t, s, "Second Year", "A")

	_, err := s.AddClass(Class{
		Name:       "Second Year",
		Department: dept,
		Divisions:  []Division{{ID: "div-x", Name: "A"}},
	})
	if !errors.Is(err, ErrDuplicateClassDivision) {
		t.Fatalf("AddClass = %v, want ErrDuplicateClassDivision", err)
	}

	// Same pair in another department is fine.
	if _, err := s.AddClass(Class{
		Name:       "Second Year",
		Department: "Mechanical Engineering",
		Divisions:  []Division{{ID: "div-y", Name: "A"}},
	}); err != nil {
		t.Fatalf("cross-department AddClass: %v", err)
	}
}

func TestYearCoordinatorInheritedByNewDivision(t *testing.T) {
	s := NewStore()
	firstID, _ := addClass(t, s, "Third Year", "A")
	if err := s.SetYearCoordinator(firstID, "yc@x.edu"); err != nil {
		t.Fatalf("SetYearCoordinator: %v", err)
	}

	secondID, _ := addClass(t, s, "Third Year", "B")
	c, _ := s.ClassByID(secondID)
	if c.YearCoordinator != "yc@x.edu" {
		t.Errorf("new division coordinator = %q, want inherited yc@x.edu", c.YearCoordinator)
	}
}

func TestSetYearCoordinatorPropagatesAcrossCohort(t *testing.T) {
	s := NewStore()
	aID, _ := addClass(t, s, "Final Year", "A")
	bID, _ := addClass(t, s, "Final Year", "B")
	otherID, _ := addClass(t, s, "First Year", "A")

	if err := s.SetYearCoordinator(aID, "yc@x.edu"); err != nil {
		t.Fatalf("SetYearCoordinator: %v", err)
	}

	for _, id := range []string{aID, bID} {
		c, _ := s.ClassByID(id)
		if c.YearCoordinator != "yc@x.edu" {
			t.Errorf("class %s coordinator = %q, want yc@x.edu", c.Name, c.YearCoordinator)
		}
	}
	other, _ := s.ClassByID(otherID)
	if other.YearCoordinator != "" {
		t.Errorf("unrelated cohort got coordinator %q", other.YearCoordinator)
	}
}

func TestDeleteClassCascadesStudents(t *testing.T) {
	s := NewStore()
	classID, divID := addClass(t, s, "Second Year", "A")
	keepID, keepDiv := addClass(t, s, "Third Year", "A")

	if _, err := s.AddStudent(Student{Name: "Asha", Email: "asha@x.edu", RegNo: "R1", ClassID: classID, DivisionID: divID}); err != nil {
		t.Fatalf("AddStudent: %v", err)
	}
	kept, err := s.AddStudent(Student{Name: "Ravi", Email: "ravi@x.edu", RegNo: "R2", ClassID: keepID, DivisionID: keepDiv})
	if err != nil {
		t.Fatalf("AddStudent: %v", err)
	}

	if err := s.DeleteClass(classID); err != nil {
		t.Fatalf("DeleteClass: %v", err)
	}
	if got := s.StudentsForClass(classID, ""); len(got) != 0 {
		t.Errorf("deleted class still has %d students", len(got))
	}
	if _, err := s.StudentByID(kept); err != nil {
		t.Errorf("unrelated student removed: %v", err)
	}
}

func TestStudentUniqueness(t *testing.T) {
	s := NewStore()
	classID, divID := addClass(t, s, "Second Year", "A")

	base := Student{Name: "Asha", Email: "asha@x.edu", RegNo: "R1", Mobile: "9000000001", ClassID: classID, DivisionID: divID}
	id, err := s.AddStudent(base)
	if err != nil {
		t.Fatalf("AddStudent: %v", err)
	}

	tests := []struct {
		name  string
		st    Student
		field string
	}{
		{"email", Student{Name: "B", Email: "asha@x.edu", RegNo: "R9", Mobile: "9000000009", ClassID: classID, DivisionID: divID}, "email"},
		{"regNo", Student{Name: "B", Email: "b@x.edu", RegNo: "R1", Mobile: "9000000009", ClassID: classID, DivisionID: divID}, "registration number"},
		{"mobile", Student{Name: "B", Email: "b@x.edu", RegNo: "R9", Mobile: "9000000001", ClassID: classID, DivisionID: divID}, "mobile number"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddStudent(tc.st)
			var dup *DuplicateFieldError
			if !errors.As(err, &dup) {
				t.Fatalf("AddStudent = %v, want DuplicateFieldError", err)
			}
			if dup.Field != tc.field {
				t.Errorf("field = %q, want %q", dup.Field, tc.field)
			}
		})
	}

	// A student may keep their own values on update.
	email := "asha@x.edu"
	if err := s.UpdateStudent(id, StudentPatch{Email: &email}); err != nil {
		t.Errorf("self-update rejected: %v", err)
	}
}

func TestSubjectScopeValidatedAtWriteTime(t *testing.T) {
	s := NewStore()
	classID, divID := addClass(t, s, "Second Year", "A")

	if _, err := s.AddSubject(Subject{Name: "Networks", Code: "CS201", ClassID: classID, Scope: OneDivision(divID), Type: SubjectTheory}); err != nil {
		t.Fatalf("AddSubject: %v", err)
	}
	if _, err := s.AddSubject(Subject{Name: "OS", ClassID: classID, Scope: OneDivision("not-a-division"), Type: SubjectTheory}); err == nil {
		t.Error("scope naming a foreign division accepted")
	}
	if _, err := s.AddSubject(Subject{Name: "DBMS", ClassID: classID, Scope: AllDivisions(), Type: "seminar"}); err == nil {
		t.Error("invalid subject type accepted")
	}
}

func TestSubjectsForClassHonorsScope(t *testing.T) {
	s := NewStore()
	classID, err := s.AddClass(Class{
		Name:       "Second Year",
		Department: dept,
		Divisions:  []Division{{ID: "div-a", Name: "A"}, {ID: "div-b", Name: "B"}},
	})
	if err != nil {
		t.Fatalf("AddClass: %v", err)
	}

	if _, err := s.AddSubject(Subject{Name: "Maths", ClassID: classID, Scope: AllDivisions(), Type: SubjectTheory}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSubject(Subject{Name: "Networks Lab", ClassID: classID, Scope: OneBatch("div-a", "batch-1"), Type: SubjectPractical}); err != nil {
		t.Fatal(err)
	}

	forB := s.SubjectsForClass(classID, "div-b")
	if len(forB) != 1 || forB[0].Name != "Maths" {
		t.Errorf("division B subjects = %v, want only Maths", forB)
	}
	forA := s.SubjectsForClass(classID, "div-a")
	if len(forA) != 2 {
		t.Errorf("division A subjects = %d, want 2", len(forA))
	}
}

func TestDivisionScopeIncludes(t *testing.T) {
	tests := []struct {
		name  string
		scope DivisionScope
		div   string
		want  bool
	}{
		{"all", AllDivisions(), "anything", true},
		{"one match", OneDivision("d1"), "d1", true},
		{"one miss", OneDivision("d1"), "d2", false},
		{"batch match", OneBatch("d1", "b1"), "d1", true},
		{"list match", SpecificDivisions("d1", "d3"), "d3", true},
		{"list miss", SpecificDivisions("d1", "d3"), "d2", false},
	}
	for _, tc := range tests {
		if got := tc.scope.Includes(tc.div); got != tc.want {
			t.Errorf("%s: Includes(%s) = %v, want %v", tc.name, tc.div, got, tc.want)
		}
	}
}

func TestMentorAssignment(t *testing.T) {
	s := NewStore()
	classID, divID := addClass(t, s, "Second Year", "A")
	id, err := s.AddStudent(Student{Name: "Asha", Email: "asha@x.edu", RegNo: "R1", ClassID: classID, DivisionID: divID})
	if err != nil {
		t.Fatalf("AddStudent: %v", err)
	}

	if err := s.AssignMentor(id, "mentor@x.edu"); err != nil {
		t.Fatalf("AssignMentor: %v", err)
	}
	mentees := s.MenteesForMentor("mentor@x.edu")
	if len(mentees) != 1 || mentees[0].ID != id {
		t.Fatalf("MenteesForMentor = %v, want the assigned student", mentees)
	}

	if err := s.AssignMentor(id, ""); err != nil {
		t.Fatalf("clearing mentor: %v", err)
	}
	if got := s.MenteesForMentor("mentor@x.edu"); len(got) != 0 {
		t.Errorf("cleared mentor still has %d mentees", len(got))
	}
}

func TestRecordSessionResult(t *testing.T) {
	s := NewStore()
	classID, divID := addClass(t, s, "Second Year", "A")
	id, _ := s.AddStudent(Student{Name: "Asha", Email: "asha@x.edu", RegNo: "R1", ClassID: classID, DivisionID: divID})

	for _, present := range []bool{true, true, false} {
		if err := s.RecordSessionResult(id, present); err != nil {
			t.Fatalf("RecordSessionResult: %v", err)
		}
	}

	st, _ := s.StudentByID(id)
	if st.TotalSessions != 3 || st.SessionsAttended != 2 {
		t.Errorf("counters = %d/%d, want 2/3", st.SessionsAttended, st.TotalSessions)
	}
	if st.AttendancePercent != 66.67 {
		t.Errorf("percent = %v, want 66.67", st.AttendancePercent)
	}
}

func TestUniqueClassNamesAndDivisions(t *testing.T) {
	s := NewStore()
	addClass(t, s, "Second Year", "A")
	addClass(t, s, "Second Year", "B")
	addClass(t, s, "Third Year", "A")

	names := s.UniqueClassNames(dept)
	if len(names) != 2 {
		t.Errorf("UniqueClassNames = %d entries, want 2", len(names))
	}

	divisions := s.DivisionsForClassName(dept, "Second Year")
	if len(divisions) != 2 {
		t.Errorf("DivisionsForClassName = %d, want 2", len(divisions))
	}
}
