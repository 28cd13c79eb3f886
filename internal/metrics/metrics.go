// Package metrics exposes the service's prometheus collectors. Everything is
// registered on the default registry and served by promhttp in cmd/api.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ScheduleConflicts counts rejected slot writes by conflict axis
// ("class_division" or "teacher").
var ScheduleConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "classtrack_schedule_conflicts_total",
	Help: "Slot writes rejected by the timetable conflict check, by axis.",
}, []string{"axis"})

// SessionsResolved counts resolver queries by outcome ("eligible" when at
// least one slot matched, "empty" otherwise).
var SessionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "classtrack_sessions_resolved_total",
	Help: "Attendance session resolutions, by outcome.",
}, []string{"outcome"})

// AttendanceSubmissions counts attendance submissions by result ("accepted"
// or "duplicate").
var AttendanceSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "classtrack_attendance_submissions_total",
	Help: "Attendance submissions, by result.",
}, []string{"result"})
