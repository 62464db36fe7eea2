package dto

import (
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/pkg/matching"
)

// AssignRequest links a student to a supervisor
type AssignRequest struct {
	StudentID    string `json:"studentId" binding:"required"`
	SupervisorID string `json:"supervisorId" binding:"required"`
}

// AssignmentResponse is the outcome of an assign or unassign
type AssignmentResponse struct {
	Student              models.Student      `json:"student"`
	Supervisor           *SupervisorResponse `json:"supervisor,omitempty"`
	PreviousSupervisorID *string             `json:"previousSupervisorId,omitempty"`
}

// SuggestionResponse is one ranked supervisor for a student
type SuggestionResponse struct {
	Supervisor SupervisorSummary `json:"supervisor"`
	MaxQuota   int               `json:"maxQuota"`
	Load       int               `json:"currentLoad"`
	matching.Result
}

// MatchingResponse is the ranked list of supervisors for a student
type MatchingResponse struct {
	Student     StudentSummary       `json:"student"`
	Domains     models.Domains       `json:"studentDomains"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// LoadCorrection is one supervisor whose stored load disagreed with its students
type LoadCorrection struct {
	SupervisorID string `json:"supervisorId"`
	Name         string `json:"name"`
	Stored       int    `json:"stored"`
	Actual       int    `json:"actual"`
}

// ReconcileResponse lists the loads corrected by a reconcile pass
type ReconcileResponse struct {
	Checked     int              `json:"checked"`
	Corrections []LoadCorrection `json:"corrections"`
	// Dangling are students pointing at a supervisor that no longer exists
	Dangling []string `json:"danglingStudents"`
}

// AssignmentEvent is pushed on the event stream after an assignment change
type AssignmentEvent struct {
	StudentID            string        `json:"studentId"`
	SupervisorID         string        `json:"supervisorId,omitempty"`
	PreviousSupervisorID string        `json:"previousSupervisorId,omitempty"`
	Status               models.Status `json:"status,omitempty"`
	CurrentLoad          *int          `json:"currentLoad,omitempty"`
	MaxQuota             *int          `json:"maxQuota,omitempty"`
}
