package timetable

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"classtrack/internal/roster"
)

// Store owns the timetable's slot collection. Every mutation runs the
// conflict check and the write as one critical section, so no reader ever
// observes two overlapping slots as both committed.
type Store struct {
	mu    sync.RWMutex
	slots map[string]TimeSlot
}

// NewStore creates an empty schedule.
func NewStore() *Store {
	return &Store{slots: make(map[string]TimeSlot)}
}

// SlotPatch carries the mutable slot fields; nil means leave unchanged.
type SlotPatch struct {
	Day          *Day
	StartTime    *string
	EndTime      *string
	SubjectID    *string
	SubjectType  *roster.SubjectType
	TeacherEmail *string
}

// AddSlot validates the slot and commits it unless it overlaps an existing
// slot for the same class+division+day or for the same teacher+day. A
// rejected add leaves the store untouched. Returns the new slot id.
func (s *Store) AddSlot(slot TimeSlot) (string, error) {
	if !slot.Day.Valid() {
		return "", ErrInvalidDay
	}
	if err := validateTimes(slot.StartTime, slot.EndTime); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ce := s.findConflict(slot, ""); ce != nil {
		return "", ce
	}
	slot.ID = uuid.NewString()
	s.slots[slot.ID] = slot
	return slot.ID, nil
}

// UpdateSlot applies a patch. When the patch touches the day, time range or
// teacher, the conflict check runs again against every other slot before
// anything is applied.
func (s *Store) UpdateSlot(id string, patch SlotPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return ErrNotFound
	}

	next := slot
	if patch.Day != nil {
		next.Day = *patch.Day
	}
	if patch.StartTime != nil {
		next.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		next.EndTime = *patch.EndTime
	}
	if patch.SubjectID != nil {
		next.SubjectID = *patch.SubjectID
	}
	if patch.SubjectType != nil {
		next.SubjectType = *patch.SubjectType
	}
	if patch.TeacherEmail != nil {
		next.TeacherEmail = *patch.TeacherEmail
	}

	if !next.Day.Valid() {
		return ErrInvalidDay
	}
	if err := validateTimes(next.StartTime, next.EndTime); err != nil {
		return err
	}
	if patch.Day != nil || patch.StartTime != nil || patch.EndTime != nil || patch.TeacherEmail != nil {
		if ce := s.findConflict(next, id); ce != nil {
			return ce
		}
	}

	s.slots[id] = next
	return nil
}

// DeleteSlot removes a slot; ErrNotFound when the id is unknown.
func (s *Store) DeleteSlot(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[id]; !ok {
		return ErrNotFound
	}
	delete(s.slots, id)
	return nil
}

// SlotByID returns one slot.
func (s *Store) SlotByID(id string) (TimeSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[id]
	if !ok {
		return TimeSlot{}, ErrNotFound
	}
	return slot, nil
}

// SlotsForClassDivision lists a class+division's slots in week order. An
// empty divisionID returns the whole class.
func (s *Store) SlotsForClassDivision(classID, divisionID string) []TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TimeSlot
	for _, slot := range s.slots {
		if slot.ClassID != classID {
			continue
		}
		if divisionID != "" && slot.DivisionID != divisionID {
			continue
		}
		out = append(out, slot)
	}
	sortSlots(out)
	return out
}

// SlotsForTeacher lists every slot assigned to the teacher in week order.
func (s *Store) SlotsForTeacher(teacherEmail string) []TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []TimeSlot
	for _, slot := range s.slots {
		if slot.TeacherEmail != "" && slot.TeacherEmail == teacherEmail {
			out = append(out, slot)
		}
	}
	sortSlots(out)
	return out
}

// Snapshot returns a copy of every committed slot, for the session resolver.
func (s *Store) Snapshot() []TimeSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TimeSlot, 0, len(s.slots))
	for _, slot := range s.slots {
		out = append(out, slot)
	}
	sortSlots(out)
	return out
}

// findConflict checks the candidate against every committed slot except
// excludeID, on both the class/division axis and the teacher axis. Caller
// holds the lock.
func (s *Store) findConflict(candidate TimeSlot, excludeID string) *ConflictError {
	for id, existing := range s.slots {
		if id == excludeID || existing.Day != candidate.Day {
			continue
		}
		if !overlaps(candidate.StartTime, candidate.EndTime, existing.StartTime, existing.EndTime) {
			continue
		}
		if existing.ClassID == candidate.ClassID && existing.DivisionID == candidate.DivisionID {
			return &ConflictError{Axis: AxisClassDivision, Existing: existing}
		}
		if candidate.TeacherEmail != "" && existing.TeacherEmail == candidate.TeacherEmail {
			return &ConflictError{Axis: AxisTeacher, Existing: existing}
		}
	}
	return nil
}

// dayIndex orders days Monday through Saturday.
func dayIndex(d Day) int {
	for i, day := range Days {
		if d == day {
			return i
		}
	}
	return len(Days)
}

func sortSlots(slots []TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return dayIndex(slots[i].Day) < dayIndex(slots[j].Day)
		}
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].ID < slots[j].ID
	})
}
