package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleCoach   Role = "COACH"
	RoleAthlete Role = "ATHLETE"
)

// Gender is the biological gender used by body composition formulas.
// An empty value means it has not been set on the profile yet.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderUnset  Gender = ""
)

// Valid reports whether g is one of the accepted values (unset included).
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderUnset
}

const (
	// PasswordHistoryLimit is how many previous hashes are kept on a user.
	PasswordHistoryLimit = 5
	// PasswordReuseWindow is how many of the most recent hashes a new password
	// must not match.
	PasswordReuseWindow = 3
)

// PasswordHistoryEntry is one previously used password hash.
type PasswordHistoryEntry struct {
	Hash      string    `bson:"hash" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// User represents a user in the system (either a Coach or an Athlete).
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email            string             `bson:"email" json:"email"`    // unique index
	PasswordHash     string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role             Role               `bson:"role" json:"role"`
	Name             string             `bson:"name,omitempty" json:"name,omitempty"`
	LastName         string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age              int                `bson:"age,omitempty" json:"age,omitempty"`
	BiologicalGender Gender             `bson:"biologicalGender,omitempty" json:"biologicalGender,omitempty"`

	// AddedBy is the coach that created this athlete. It is an ownership link,
	// nothing enforces that the coach still exists.
	AddedBy *primitive.ObjectID `bson:"addedBy,omitempty" json:"addedBy,omitempty"`

	Metrics []MetricRecord `bson:"metrics" json:"metrics"`

	PasswordHistory     []PasswordHistoryEntry `bson:"passwordHistory" json:"-"`
	PasswordLastChanged time.Time              `bson:"passwordLastChanged" json:"passwordLastChanged"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

// IsManagedBy reports whether coachID created this user.
func (u *User) IsManagedBy(coachID primitive.ObjectID) bool {
	return u.AddedBy != nil && *u.AddedBy == coachID
}

// CanBeAccessedBy reports whether requesterID may read or modify this user's
// profile and metrics: the user themselves or the coach that added them.
func (u *User) CanBeAccessedBy(requesterID primitive.ObjectID) bool {
	return u.ID == requesterID || u.IsManagedBy(requesterID)
}

// RecordPassword appends hash to the history and trims it to
// PasswordHistoryLimit entries.
func (u *User) RecordPassword(hash string, at time.Time) {
	u.PasswordHash = hash
	u.PasswordLastChanged = at
	u.PasswordHistory = append(u.PasswordHistory, PasswordHistoryEntry{Hash: hash, CreatedAt: at})
	if over := len(u.PasswordHistory) - PasswordHistoryLimit; over > 0 {
		u.PasswordHistory = u.PasswordHistory[over:]
	}
}

// RecentPasswordHashes returns up to PasswordReuseWindow of the newest hashes.
func (u *User) RecentPasswordHashes() []string {
	start := len(u.PasswordHistory) - PasswordReuseWindow
	if start < 0 {
		start = 0
	}
	hashes := make([]string, 0, len(u.PasswordHistory)-start)
	for _, entry := range u.PasswordHistory[start:] {
		hashes = append(hashes, entry.Hash)
	}
	return hashes
}
