// Package report implements the report store: the authoritative
// collection of civic issue reports and the read-only queries over it.
package report

import (
	"time"
)

// Status is the lifecycle state of a report. Transitions are
// intentionally unrestricted: an admin may move a report between any two
// states, including re-opening a resolved one.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// PlaceholderPhotoURL is stored when a report is created without a photo.
const PlaceholderPhotoURL = "https://placehold.co/400x300/e0e0e0/555?text=No+Photo"

// Coordinates is an optional latitude/longitude pair captured at
// submission time.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Report is the sole persisted entity. ID and QueryNumber are assigned at
// creation and never reassigned; Status, AdminNotes, ResolvedImageURL and
// Timestamp are rewritten by admin status updates.
type Report struct {
	Seq              uint         `json:"-" gorm:"primaryKey;autoIncrement"` // creation sequence, sqlite backend only
	ID               string       `json:"id" gorm:"uniqueIndex;size:36"`
	QueryNumber      string       `json:"queryNumber" gorm:"uniqueIndex;size:15"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	LocationText     string       `json:"locationText"`
	Coordinates      *Coordinates `json:"coordinates,omitempty" gorm:"embedded;embeddedPrefix:coord_"`
	PhotoURL         string       `json:"photoUrl"`
	ReporterID       string       `json:"reporterId" gorm:"index"`
	Status           Status       `json:"status" gorm:"index"`
	AdminNotes       string       `json:"adminNotes"`
	ResolvedImageURL string       `json:"resolvedImageUrl,omitempty"`
	Timestamp        time.Time    `json:"timestamp"` // last modification time
}

// Draft carries the citizen-supplied fields of a new report.
type Draft struct {
	Title        string
	Description  string
	LocationText string
	Coordinates  *Coordinates
	PhotoURL     string
	ReporterID   string
}

// Statistics summarizes the collection by status. ResolvedPercentage is
// the resolved share of the total, rounded half-up, 0 when the store is
// empty.
type Statistics struct {
	Total              int `json:"total"`
	Pending            int `json:"pending"`
	InProgress         int `json:"inProgress"`
	Resolved           int `json:"resolved"`
	ResolvedPercentage int `json:"resolvedPercentage"`
}
