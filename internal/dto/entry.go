package dto

import "proclog/internal/domain"

type SubmitEntryRequest struct {
	PatientID string   `json:"patientId"`
	Procedure string   `json:"procedure"`
	Diagnosis string   `json:"diagnosis"`
	Notes     string   `json:"notes,omitempty"`
	Images    []string `json:"images,omitempty"`
}

type DecisionRequest struct {
	Outcome string `json:"outcome"`
}

// Submitter is the slice of the submitter's profile the review queue shows.
type Submitter struct {
	FullName  string `json:"fullName"`
	MedicalID string `json:"medicalId"`
}

type PendingEntry struct {
	Entry     domain.LogEntry `json:"entry"`
	Submitter Submitter       `json:"submitter"`
}

type EntryStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
