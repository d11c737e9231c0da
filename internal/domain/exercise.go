// internal/domain/exercise.go
package domain

// Exercise is a single prescribed exercise inside a workout Day.
// Sets and Reps are free text ("3", "4-5", "AMRAP").
type Exercise struct {
	ID      string `bson:"id" json:"id"`
	DayID   string `bson:"dayId" json:"dayId"` // parent Day
	Name    string `bson:"name" json:"name"`
	Sets    string `bson:"sets" json:"sets"`
	Reps    string `bson:"reps" json:"reps"`
	Cadence string `bson:"cadence,omitempty" json:"cadence,omitempty"`
	Notes   string `bson:"notes,omitempty" json:"notes,omitempty"`
	Video   string `bson:"video,omitempty" json:"video,omitempty"` // URL or storage object key
}

// Day groups exercises under a label such as "Monday" with a focus such as
// "Upper Body". ExerciseOrder holds the presentation order of its exercises.
type Day struct {
	ID            string   `bson:"id" json:"id"`
	Day           string   `bson:"day" json:"day"`
	Focus         string   `bson:"focus" json:"focus"`
	ExerciseOrder []string `bson:"exerciseOrder" json:"-"`
}

// DayView is a Day with its exercises resolved in order, the shape clients see.
type DayView struct {
	ID        string     `json:"id"`
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}
