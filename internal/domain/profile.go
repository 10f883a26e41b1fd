package domain

import "time"

// Profile carries the practitioner attributes attached to an identity
// provider subject. ID equals the subject and never changes.
type Profile struct {
	ID             ActorID   `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string    `gorm:"type:text;not null" json:"fullName"`
	MedicalID      string    `gorm:"type:text" json:"medicalId"`
	Specialization string    `gorm:"type:text" json:"specialization"`
	Hospital       string    `gorm:"type:text" json:"hospital"`
	Role           Role      `gorm:"type:text;not null;default:practitioner" json:"role"`
	SupervisorID   *ActorID  `gorm:"type:uuid" json:"supervisorId,omitempty"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Profile) TableName() string { return "profiles" }
