package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/metrics"
	"classtrack/internal/roster"
	"classtrack/internal/timetable"
)

type slotRequest struct {
	ClassID      string             `json:"class_id" binding:"required"`
	DivisionID   string             `json:"division_id" binding:"required"`
	Day          timetable.Day      `json:"day" binding:"required"`
	StartTime    string             `json:"start_time" binding:"required"`
	EndTime      string             `json:"end_time" binding:"required"`
	SubjectID    string             `json:"subject_id"`
	SubjectType  roster.SubjectType `json:"subject_type" binding:"required"`
	TeacherEmail string             `json:"teacher_email"`
}

// CreateSlot adds a timetable slot for a class the caller manages. A 409
// response carries which axis conflicted: the class/division already has a
// slot there, or the teacher is booked elsewhere.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req slotRequest
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

	id, err := h.schedule.AddSlot(timetable.TimeSlot{
		ClassID:      req.ClassID,
		DivisionID:   req.DivisionID,
		Day:          req.Day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SubjectID:    req.SubjectID,
		SubjectType:  req.SubjectType,
		TeacherEmail: req.TeacherEmail,
	})
	if err != nil {
		scheduleError(c, err)
		return
	}
	slot, _ := h.schedule.SlotByID(id)
	c.JSON(http.StatusCreated, slot)
}

type slotUpdateRequest struct {
	Day          *timetable.Day      `json:"day"`
	StartTime    *string             `json:"start_time"`
	EndTime      *string             `json:"end_time"`
	SubjectID    *string             `json:"subject_id"`
	SubjectType  *roster.SubjectType `json:"subject_type"`
	TeacherEmail *string             `json:"teacher_email"`
}

// UpdateSlot patches a slot, re-running the conflict check when the day,
// times or teacher change.
func (h *Handler) UpdateSlot(c *gin.Context) {
	slot, err := h.schedule.SlotByID(c.Param("id"))
	if err != nil {
		scheduleError(c, err)
		return
	}
	if _, ok := h.classForManage(c, slot.ClassID); !ok {
		return
	}

	var req slotUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err = h.schedule.UpdateSlot(slot.ID, timetable.SlotPatch{
		Day:          req.Day,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SubjectID:    req.SubjectID,
		SubjectType:  req.SubjectType,
		TeacherEmail: req.TeacherEmail,
	})
	if err != nil {
		scheduleError(c, err)
		return
	}
	updated, _ := h.schedule.SlotByID(slot.ID)
	c.JSON(http.StatusOK, updated)
}

// DeleteSlot removes a slot from a class the caller manages.
func (h *Handler) DeleteSlot(c *gin.Context) {
	slot, err := h.schedule.SlotByID(c.Param("id"))
	if err != nil {
		scheduleError(c, err)
		return
	}
	if _, ok := h.classForManage(c, slot.ClassID); !ok {
		return
	}
	if err := h.schedule.DeleteSlot(slot.ID); err != nil {
		scheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSlots lists a class+division's weekly slots.
func (h *Handler) ListSlots(c *gin.Context) {
	classID := c.Query("class_id")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_id is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": h.schedule.SlotsForClassDivision(classID, c.Query("division_id"))})
}

// MySchedule lists the calling teacher's weekly slots.
func (h *Handler) MySchedule(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	c.JSON(http.StatusOK, gin.H{"slots": h.schedule.SlotsForTeacher(claims.Email)})
}

// scheduleError maps timetable errors onto HTTP statuses and counts
// conflicts by axis.
func scheduleError(c *gin.Context, err error) {
	if ce, ok := timetable.AsConflict(err); ok {
		metrics.ScheduleConflicts.WithLabelValues(string(ce.Axis)).Inc()
		c.JSON(http.StatusConflict, gin.H{
			"error":    ce.Error(),
			"axis":     ce.Axis,
			"existing": ce.Existing,
		})
		return
	}
	if errors.Is(err, timetable.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
