package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/metrics"
	"classtrack/internal/roster"
	"classtrack/internal/session"
	"classtrack/internal/timetable"
)

// TodaySessions resolves the slots the calling teacher may mark attendance
// for. The optional date query (YYYY-MM-DD) defaults to today; an empty list
// is a normal answer meaning no eligible session.
func (h *Handler) TodaySessions(c *gin.Context) {
	claims := auth.ClaimsFrom(c)

	classID := c.Query("class_id")
	divisionID := c.Query("division_id")
	subjectID := c.Query("subject_id")
	subjectType := roster.SubjectType(c.DefaultQuery("subject_type", string(roster.SubjectTheory)))
	if classID == "" || divisionID == "" || subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id, division_id and subject_id are required"})
		return
	}
	if !subjectType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_type must be theory or practical"})
		return
	}

	date := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse(session.DateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	slots := session.ResolveSlots(session.Query{
		TeacherEmail: claims.Email,
		ClassID:      classID,
		DivisionID:   divisionID,
		SubjectID:    subjectID,
		SubjectType:  subjectType,
		Date:         date,
	}, h.schedule.Snapshot())

	outcome := "eligible"
	if len(slots) == 0 {
		outcome = "empty"
	}
	metrics.SessionsResolved.WithLabelValues(outcome).Inc()

	marked := make(map[string]bool, len(slots))
	for _, slot := range slots {
		key := session.Key(classID, divisionID, subjectID, slot.ID, date)
		m, err := h.att.HasBeenMarked(c.Request.Context(), attendance.Session{
			ClassID: classID, DivisionID: divisionID, SubjectID: subjectID, SlotID: slot.ID, Date: date,
		})
		if err == nil {
			marked[key] = m
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   date.Format(session.DateLayout),
		"slots":  slots,
		"marked": marked,
	})
}

type submitRequest struct {
	SlotID  string             `json:"slot_id" binding:"required"`
	Date    string             `json:"date"`
	Entries []attendance.Entry `json:"entries" binding:"required,min=1"`
}

// SubmitAttendance writes one record per entry for the chosen slot. The
// session identity comes from the committed slot, not the request, so a
// caller cannot tag records onto someone else's session; a repeat submission
// for the same slot and date gets a 409.
func (h *Handler) SubmitAttendance(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.schedule.SlotByID(req.SlotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "time slot not found"})
		return
	}
	claims := auth.ClaimsFrom(c)
	if slot.TeacherEmail != claims.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "slot is not assigned to you"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(session.DateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}
	if day, ok := timetable.DayOf(date); !ok || day != slot.Day {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot does not run on this date"})
		return
	}

	sess := attendance.Session{
		ClassID:     slot.ClassID,
		DivisionID:  slot.DivisionID,
		SubjectID:   slot.SubjectID,
		SubjectType: slot.SubjectType,
		SlotID:      slot.ID,
		Period:      slot.Period(),
		Date:        date,
		MarkedBy:    claims.Email,
	}

	records, err := h.att.Submit(c.Request.Context(), sess, req.Entries)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateSession) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_key": sess.Key(),
		"records":     records,
	})
}

// StudentAttendance lists a student's records, optionally for one subject.
func (h *Handler) StudentAttendance(c *gin.Context) {
	records, err := h.att.RecordsForStudent(c.Request.Context(), c.Param("id"), c.Query("subject_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
