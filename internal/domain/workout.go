package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus is the lifecycle flag dashboards filter on.
type WorkoutStatus string

const (
	WorkoutStatusActive   WorkoutStatus = "ACTIVE"
	WorkoutStatusArchived WorkoutStatus = "ARCHIVED"
)

// Valid reports whether s is a known status.
func (s WorkoutStatus) Valid() bool {
	return s == WorkoutStatusActive || s == WorkoutStatusArchived
}

// Workout is a coach-authored program made of Days, each holding Exercises.
//
// Days and exercises are kept in flat maps keyed by id, with DayOrder and
// Day.ExerciseOrder recording insertion order. Every id in an order list has a
// map entry and every Exercise.DayID points at an existing day.
type Workout struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name"`
	CoachID         primitive.ObjectID   `bson:"coach" json:"coach"`
	AssignedTo      []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	AdditionalNotes string               `bson:"additionalNotes,omitempty" json:"additionalNotes,omitempty"`
	Status          WorkoutStatus        `bson:"status" json:"status"`

	DayOrder  []string            `bson:"dayOrder" json:"-"`
	Days      map[string]Day      `bson:"days" json:"-"`
	Exercises map[string]Exercise `bson:"exercises" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (w *Workout) ensureIndex() {
	if w.Days == nil {
		w.Days = make(map[string]Day)
	}
	if w.Exercises == nil {
		w.Exercises = make(map[string]Exercise)
	}
}

// AppendDay adds day at the end of the workout. day.ID must be set.
func (w *Workout) AppendDay(day Day) Day {
	w.ensureIndex()
	day.ExerciseOrder = nil
	w.Days[day.ID] = day
	w.DayOrder = append(w.DayOrder, day.ID)
	return day
}

// Day looks a day up by id.
func (w *Workout) Day(dayID string) (Day, bool) {
	day, ok := w.Days[dayID]
	return day, ok
}

// AppendExercise adds ex at the end of the given day. ex.ID must be set.
func (w *Workout) AppendExercise(dayID string, ex Exercise) (Exercise, error) {
	w.ensureIndex()
	day, ok := w.Days[dayID]
	if !ok {
		return Exercise{}, fmt.Errorf("%w: %s", ErrDayNotFound, dayID)
	}
	ex.DayID = dayID
	w.Exercises[ex.ID] = ex
	day.ExerciseOrder = append(day.ExerciseOrder, ex.ID)
	w.Days[dayID] = day
	return ex, nil
}

// exercise resolves an exercise that must belong to dayID.
func (w *Workout) exercise(dayID, exerciseID string) (Exercise, error) {
	if _, ok := w.Days[dayID]; !ok {
		return Exercise{}, fmt.Errorf("%w: %s", ErrDayNotFound, dayID)
	}
	ex, ok := w.Exercises[exerciseID]
	if !ok || ex.DayID != dayID {
		return Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	return ex, nil
}

// ReplaceExercise overwrites every editable field of an exercise with the
// values in patch. Identity and parent are preserved.
func (w *Workout) ReplaceExercise(dayID, exerciseID string, patch Exercise) (Exercise, error) {
	if _, err := w.exercise(dayID, exerciseID); err != nil {
		return Exercise{}, err
	}
	patch.ID = exerciseID
	patch.DayID = dayID
	w.Exercises[exerciseID] = patch
	return patch, nil
}

// RemoveDay deletes a day together with all of its exercises.
func (w *Workout) RemoveDay(dayID string) error {
	day, ok := w.Days[dayID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDayNotFound, dayID)
	}
	for _, exID := range day.ExerciseOrder {
		delete(w.Exercises, exID)
	}
	delete(w.Days, dayID)
	w.DayOrder = removeID(w.DayOrder, dayID)
	return nil
}

// RemoveExercise deletes one exercise from a day.
func (w *Workout) RemoveExercise(dayID, exerciseID string) error {
	if _, err := w.exercise(dayID, exerciseID); err != nil {
		return err
	}
	day := w.Days[dayID]
	day.ExerciseOrder = removeID(day.ExerciseOrder, exerciseID)
	w.Days[dayID] = day
	delete(w.Exercises, exerciseID)
	return nil
}

// IsAssignedTo reports whether athleteID is in AssignedTo.
func (w *Workout) IsAssignedTo(athleteID primitive.ObjectID) bool {
	for _, id := range w.AssignedTo {
		if id == athleteID {
			return true
		}
	}
	return false
}

// Assign adds athleteID to AssignedTo. Assigning twice is an error.
func (w *Workout) Assign(athleteID primitive.ObjectID) error {
	if w.IsAssignedTo(athleteID) {
		return ErrDuplicateAssignment
	}
	w.AssignedTo = append(w.AssignedTo, athleteID)
	return nil
}

// Unassign removes athleteID from AssignedTo and reports whether it was there.
func (w *Workout) Unassign(athleteID primitive.ObjectID) bool {
	for i, id := range w.AssignedTo {
		if id == athleteID {
			w.AssignedTo = append(w.AssignedTo[:i], w.AssignedTo[i+1:]...)
			return true
		}
	}
	return false
}

// DayViews renders the days and their exercises in insertion order.
func (w *Workout) DayViews() []DayView {
	views := make([]DayView, 0, len(w.DayOrder))
	for _, dayID := range w.DayOrder {
		day, ok := w.Days[dayID]
		if !ok {
			continue
		}
		views = append(views, w.dayView(day))
	}
	return views
}

// DayView renders a single day.
func (w *Workout) DayView(dayID string) (DayView, bool) {
	day, ok := w.Days[dayID]
	if !ok {
		return DayView{}, false
	}
	return w.dayView(day), true
}

func (w *Workout) dayView(day Day) DayView {
	exercises := make([]Exercise, 0, len(day.ExerciseOrder))
	for _, exID := range day.ExerciseOrder {
		if ex, ok := w.Exercises[exID]; ok {
			exercises = append(exercises, ex)
		}
	}
	return DayView{ID: day.ID, Day: day.Day, Focus: day.Focus, Exercises: exercises}
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
