package models

import "strings"

// Status is the state of a student's current workflow stage
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusValidated  Status = "VALIDATED"
	StatusRejected   Status = "REJECTED"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusValidated, StatusRejected:
		return true
	}
	return false
}

// Student is a thesis candidate
type Student struct {
	Base
	FirstName        string  `json:"firstName" example:"Awa"`
	LastName         string  `json:"lastName" example:"Diallo"`
	Email            string  `json:"email" example:"awa.diallo@univ.example"`
	Program          string  `json:"program" example:"Communication"`
	Year             string  `json:"year" example:"2024-2025"`
	ThesisTitle      string  `json:"thesisTitle,omitempty" example:"Local media and civic trust"`
	Summary          string  `json:"summary,omitempty"`
	ResearchQuestion string  `json:"researchQuestion,omitempty"`
	ImmersionSite    string  `json:"immersionSite,omitempty"`
	Remarks          string  `json:"remarks,omitempty"`
	Domains          Domains `json:"domains"`
	SupervisorID     *string `json:"supervisorId"` // nil while unassigned
	Stage            string  `json:"stage" example:"DEPOT_SUJET"`
	Status           Status  `json:"status" example:"PENDING"`
}

// FullName returns "First Last"
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// HasSupervisor reports whether a supervisor is assigned
func (s Student) HasSupervisor() bool {
	return s.SupervisorID != nil && *s.SupervisorID != ""
}

// AssignedTo reports whether the student is assigned to supervisorID
func (s Student) AssignedTo(supervisorID string) bool {
	return s.HasSupervisor() && *s.SupervisorID == supervisorID
}
