package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/roster"
)

type classRequest struct {
	Name            string            `json:"name" binding:"required"`
	Divisions       []roster.Division `json:"divisions" binding:"required,min=1"`
	ClassTeacher    string            `json:"class_teacher"`
	YearCoordinator string            `json:"year_coordinator"`
}

// CreateClass adds a class to the caller's department (HOD only).
func (h *Handler) CreateClass(c *gin.Context) {
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := auth.ClaimsFrom(c)
	id, err := h.roster.AddClass(roster.Class{
		Name:            req.Name,
		Department:      roster.Department(claims.Department),
		Divisions:       req.Divisions,
		ClassTeacher:    req.ClassTeacher,
		YearCoordinator: req.YearCoordinator,
	})
	if err != nil {
		rosterError(c, err)
		return
	}
	cls, _ := h.roster.ClassByID(id)
	c.JSON(http.StatusCreated, cls)
}

// ListClasses lists the caller's department classes.
func (h *Handler) ListClasses(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	dept := roster.Department(claims.Department)
	if c.Query("unique_names") == "true" {
		c.JSON(http.StatusOK, gin.H{"classes": h.roster.UniqueClassNames(dept)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": h.roster.ClassesForDepartment(dept)})
}

// ListDivisionsForClassName lists the deduplicated divisions of a cohort.
func (h *Handler) ListDivisionsForClassName(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	name := c.Query("class_name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_name is required"})
		return
	}
	divisions := h.roster.DivisionsForClassName(roster.Department(claims.Department), name)
	c.JSON(http.StatusOK, gin.H{"divisions": divisions})
}

type classUpdateRequest struct {
	Name      *string            `json:"name"`
	Divisions *[]roster.Division `json:"divisions"`
}

// UpdateClass renames a class or replaces its divisions.
func (h *Handler) UpdateClass(c *gin.Context) {
	if _, ok := h.classForManage(c, c.Param("id")); !ok {
		return
	}
	var req classUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roster.UpdateClass(c.Param("id"), roster.ClassPatch{Name: req.Name, Divisions: req.Divisions}); err != nil {
		rosterError(c, err)
		return
	}
	cls, _ := h.roster.ClassByID(c.Param("id"))
	c.JSON(http.StatusOK, cls)
}

// DeleteClass removes a class and its students (HOD only).
func (h *Handler) DeleteClass(c *gin.Context) {
	if err := h.roster.DeleteClass(c.Param("id")); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type assignTeacherRequest struct {
	Email string `json:"email"`
}

// SetClassTeacher assigns the class teacher (HOD only). An empty email
// clears the assignment.
func (h *Handler) SetClassTeacher(c *gin.Context) {
	var req assignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.verifyFaculty(c, req.Email); err != nil {
		return
	}
	if err := h.roster.SetClassTeacher(c.Param("id"), req.Email); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetYearCoordinator assigns the coordinator across the whole cohort (HOD
// only).
func (h *Handler) SetYearCoordinator(c *gin.Context) {
	var req assignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.verifyFaculty(c, req.Email); err != nil {
		return
	}
	if err := h.roster.SetYearCoordinator(c.Param("id"), req.Email); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// verifyFaculty rejects assignments to emails outside the caller's
// department. Empty emails pass: they clear the assignment.
func (h *Handler) verifyFaculty(c *gin.Context, email string) error {
	if email == "" {
		return nil
	}
	claims := auth.ClaimsFrom(c)
	u, err := h.registry.Get(email)
	if err != nil || u.Department != claims.Department {
		c.JSON(http.StatusBadRequest, gin.H{"error": "teacher not found in department"})
		return roster.ErrUnknownTeacher
	}
	return nil
}

type subjectRequest struct {
	Name         string               `json:"name" binding:"required"`
	Code         string               `json:"code"`
	ClassID      string               `json:"class_id" binding:"required"`
	Scope        roster.DivisionScope `json:"scope"`
	FacultyEmail string               `json:"faculty_email"`
	Type         roster.SubjectType   `json:"type" binding:"required"`
}

// CreateSubject adds a subject to a class the caller manages.
func (h *Handler) CreateSubject(c *gin.Context) {
	var req subjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := h.classForManage(c, req.ClassID); !ok {
		return
	}
	if req.Scope.Kind == "" {
		req.Scope = roster.AllDivisions()
	}
	id, err := h.roster.AddSubject(roster.Subject{
		Name:         req.Name,
		Code:         req.Code,
		ClassID:      req.ClassID,
		Scope:        req.Scope,
		FacultyEmail: req.FacultyEmail,
		Type:         req.Type,
	})
	if err != nil {
		rosterError(c, err)
		return
	}
	sub, _ := h.roster.SubjectByID(id)
	c.JSON(http.StatusCreated, sub)
}

// ListSubjects lists subjects for a class, a division, or the calling
// teacher.
func (h *Handler) ListSubjects(c *gin.Context) {
	if c.Query("mine") == "true" {
		claims := auth.ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"subjects": h.roster.SubjectsForTeacher(claims.Email)})
		return
	}
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": h.roster.SubjectsForClass(classID, c.Query("division_id"))})
}

// AssignSubjectTeacher sets the subject's faculty.
func (h *Handler) AssignSubjectTeacher(c *gin.Context) {
	var req assignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.roster.SubjectByID(c.Param("id"))
	if err != nil {
		rosterError(c, err)
		return
	}
	if _, ok := h.classForManage(c, sub.ClassID); !ok {
		return
	}
	if err := h.verifyFaculty(c, req.Email); err != nil {
		return
	}
	if err := h.roster.AssignTeacherToSubject(sub.ID, req.Email); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSubject removes a subject from a class the caller manages.
func (h *Handler) DeleteSubject(c *gin.Context) {
	sub, err := h.roster.SubjectByID(c.Param("id"))
	if err != nil {
		rosterError(c, err)
		return
	}
	if _, ok := h.classForManage(c, sub.ClassID); !ok {
		return
	}
	if err := h.roster.DeleteSubject(sub.ID); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type practicalRequest struct {
	Name         string               `json:"name" binding:"required"`
	ClassID      string               `json:"class_id" binding:"required"`
	Scope        roster.DivisionScope `json:"scope"`
	TeacherEmail string               `json:"teacher_email"`
}

// CreatePractical adds a practical to a class the caller manages.
func (h *Handler) CreatePractical(c *gin.Context) {
	var req practicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := h.classForManage(c, req.ClassID); !ok {
		return
	}
	if req.Scope.Kind == "" {
		req.Scope = roster.AllDivisions()
	}
	id, err := h.roster.AddPractical(roster.Practical{
		Name:         req.Name,
		ClassID:      req.ClassID,
		Scope:        req.Scope,
		TeacherEmail: req.TeacherEmail,
	})
	if err != nil {
		rosterError(c, err)
		return
	}
	p, _ := h.roster.PracticalByID(id)
	c.JSON(http.StatusCreated, p)
}

// ListPracticals lists practicals for a class or the calling teacher.
func (h *Handler) ListPracticals(c *gin.Context) {
	if c.Query("mine") == "true" {
		claims := auth.ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"practicals": h.roster.PracticalsForTeacher(claims.Email)})
		return
	}
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"practicals": h.roster.PracticalsForClass(classID, c.Query("division_id"))})
}

// DeletePractical removes a practical from a class the caller manages.
func (h *Handler) DeletePractical(c *gin.Context) {
	p, err := h.roster.PracticalByID(c.Param("id"))
	if err != nil {
		rosterError(c, err)
		return
	}
	if _, ok := h.classForManage(c, p.ClassID); !ok {
		return
	}
	if err := h.roster.DeletePractical(p.ID); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type studentRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	RegNo      string `json:"reg_no" binding:"required"`
	Mobile     string `json:"mobile"`
	RollNumber string `json:"roll_number"`
	Year       int    `json:"year"`
	ClassID    string `json:"class_id" binding:"required"`
	DivisionID string `json:"division_id" binding:"required"`
}

// CreateStudent enrolls a student in a class the caller manages.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cls, ok := h.classForManage(c, req.ClassID)
	if !ok {
		return
	}
	if !cls.HasDivision(req.DivisionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "division does not belong to class"})
		return
	}
	id, err := h.roster.AddStudent(roster.Student{
		Name:       req.Name,
		Email:      req.Email,
		RegNo:      req.RegNo,
		Mobile:     req.Mobile,
		RollNumber: req.RollNumber,
		Year:       req.Year,
		ClassID:    req.ClassID,
		DivisionID: req.DivisionID,
	})
	if err != nil {
		rosterError(c, err)
		return
	}
	st, _ := h.roster.StudentByID(id)
	c.JSON(http.StatusCreated, st)
}

// ListStudents lists students for a class and optional division.
func (h *Handler) ListStudents(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		claims := auth.ClaimsFrom(c)
		c.JSON(http.StatusOK, gin.H{"students": h.roster.StudentsForDepartment(roster.Department(claims.Department))})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": h.roster.StudentsForClass(classID, c.Query("division_id"))})
}

// DeleteStudent removes a student from a class the caller manages.
func (h *Handler) DeleteStudent(c *gin.Context) {
	st, err := h.roster.StudentByID(c.Param("id"))
	if err != nil {
		rosterError(c, err)
		return
	}
	if _, ok := h.classForManage(c, st.ClassID); !ok {
		return
	}
	if err := h.roster.DeleteStudent(st.ID); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type mentorRequest struct {
	Email string `json:"email"`
}

// AssignMentor sets ("" clears) a student's mentor.
func (h *Handler) AssignMentor(c *gin.Context) {
	var req mentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.verifyFaculty(c, req.Email); err != nil {
		return
	}
	if err := h.roster.AssignMentor(c.Param("id"), req.Email); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMentees lists the calling faculty member's mentees.
func (h *Handler) ListMentees(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	c.JSON(http.StatusOK, gin.H{"mentees": h.roster.MenteesForMentor(claims.Email)})
}

type menteeSessionRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Present   bool   `json:"present"`
}

// RecordMenteeSession bumps a mentee's mentor-session counters.
func (h *Handler) RecordMenteeSession(c *gin.Context) {
	var req menteeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := auth.ClaimsFrom(c)
	st, err := h.roster.StudentByID(req.StudentID)
	if err != nil {
		rosterError(c, err)
		return
	}
	if st.MentorEmail != claims.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "not this student's mentor"})
		return
	}
	if err := h.roster.RecordMentorSession(st.ID, req.Present); err != nil {
		rosterError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
