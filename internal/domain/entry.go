package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Status is an entry's lifecycle state. Pending is the only non-terminal
// state; approved and rejected admit no further transition.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseOutcome accepts the two legal decision outcomes.
func ParseOutcome(s string) (Status, bool) {
	switch Status(s) {
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	default:
		return "", false
	}
}

// ImageRefs stores an ordered list of opaque image references as a JSON
// document, satisfying sql.Scanner and driver.Valuer so the same column works
// on postgres (jsonb) and sqlite (text) without gorm.io/datatypes.
type ImageRefs []string

func (r ImageRefs) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(r))
}

func (r *ImageRefs) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("domain.ImageRefs: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*r = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(r))
}

// LogEntry is one submitted procedure record. UserID, CreatedAt and Images
// are fixed at creation; only the review columns ever change, and exactly
// once (the pending -> approved/rejected transition).
type LogEntry struct {
	ID         EntryID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     ActorID    `gorm:"type:uuid;not null;index" json:"userId"`
	PatientID  string     `gorm:"type:text;not null" json:"patientId"`
	Procedure  string     `gorm:"type:text;not null" json:"procedure"`
	Diagnosis  string     `gorm:"type:text;not null" json:"diagnosis"`
	Notes      string     `gorm:"type:text" json:"notes"`
	Images     ImageRefs  `gorm:"type:jsonb" json:"images"`
	Status     Status     `gorm:"type:text;not null;index" json:"status"`
	ReviewedBy *ActorID   `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
}

func (LogEntry) TableName() string { return "log_entries" }
