package dto

type UpsertProfileRequest struct {
	FullName       string `json:"fullName"`
	MedicalID      string `json:"medicalId,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Hospital       string `json:"hospital,omitempty"`
}
