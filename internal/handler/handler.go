// Package handler binds the HTTP surface to the in-memory stores and the
// attendance service.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/roster"
	"classtrack/internal/timetable"
)

// Handler carries the composition root's stores and services.
type Handler struct {
	cfg      config.App
	registry *auth.Registry
	roster   *roster.Store
	schedule *timetable.Store
	att      *attendance.Service
}

// New wires a handler.
func New(cfg config.App, registry *auth.Registry, rosterStore *roster.Store, schedule *timetable.Store, att *attendance.Service) *Handler {
	return &Handler{cfg: cfg, registry: registry, roster: rosterStore, schedule: schedule, att: att}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and issues a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.registry.Authenticate(req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrBlocked) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	tokens, err := auth.Issue(u, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"user":          u,
	})
}

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Department string `json:"department" binding:"required"`
}

// Register creates a faculty account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u := auth.User{
		Name:       req.Name,
		Email:      req.Email,
		Role:       auth.RoleFaculty,
		Department: req.Department,
	}
	if err := h.registry.Add(u, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// ListFaculty lists the caller's department faculty.
func (h *Handler) ListFaculty(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	c.JSON(http.StatusOK, gin.H{"faculty": h.registry.FacultyForDepartment(claims.Department)})
}

type blockRequest struct {
	Blocked bool `json:"blocked"`
}

// SetFacultyBlocked blocks or unblocks a faculty account (HOD only).
func (h *Handler) SetFacultyBlocked(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.registry.SetBlocked(c.Param("email"), req.Blocked); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// canManageClass allows the department's HOD or the class's own teacher.
func (h *Handler) canManageClass(claims auth.Claims, cls roster.Class) bool {
	if claims.Role == auth.RoleHOD && string(cls.Department) == claims.Department {
		return true
	}
	return cls.ClassTeacher != "" && cls.ClassTeacher == claims.Email
}

// classForManage loads a class and enforces manage rights; writes the error
// response itself and returns ok=false on failure.
func (h *Handler) classForManage(c *gin.Context, classID string) (roster.Class, bool) {
	cls, err := h.roster.ClassByID(classID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return roster.Class{}, false
	}
	if !h.canManageClass(auth.ClaimsFrom(c), cls) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the class teacher or department HOD"})
		return roster.Class{}, false
	}
	return cls, true
}

// rosterError maps roster errors onto HTTP statuses.
func rosterError(c *gin.Context, err error) {
	var dup *roster.DuplicateFieldError
	switch {
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, roster.ErrDuplicateClassDivision), errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
