package dto

import "github.com/yigit/thesismatch/internal/app/models"

// CreateStudentRequest represents a new student. Supervisors are set
// through the assignment endpoints only.
type CreateStudentRequest struct {
	FirstName        string   `json:"firstName" binding:"required"`
	LastName         string   `json:"lastName" binding:"required"`
	Email            string   `json:"email" binding:"required,email"`
	Program          string   `json:"program" binding:"required"`
	Year             string   `json:"year" binding:"required"`
	ThesisTitle      string   `json:"thesisTitle"`
	Summary          string   `json:"summary"`
	ResearchQuestion string   `json:"researchQuestion"`
	ImmersionSite    string   `json:"immersionSite"`
	Remarks          string   `json:"remarks"`
	Domains          []string `json:"domains" binding:"omitempty,dive,domaintag"`
}

// UpdateStudentRequest carries the fields to change
type UpdateStudentRequest struct {
	FirstName        *string   `json:"firstName" binding:"omitempty,min=1"`
	LastName         *string   `json:"lastName" binding:"omitempty,min=1"`
	Email            *string   `json:"email" binding:"omitempty,email"`
	Program          *string   `json:"program"`
	Year             *string   `json:"year"`
	ThesisTitle      *string   `json:"thesisTitle"`
	Summary          *string   `json:"summary"`
	ResearchQuestion *string   `json:"researchQuestion"`
	ImmersionSite    *string   `json:"immersionSite"`
	Remarks          *string   `json:"remarks"`
	Domains          *[]string `json:"domains" binding:"omitempty,dive,domaintag"`
}

// ProjectFieldsOnly reports whether the request touches only the fields a
// student may edit on their own profile
func (r UpdateStudentRequest) ProjectFieldsOnly() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.Program == nil && r.Year == nil
}

// StudentFilter narrows the student list
type StudentFilter struct {
	Stage        string        `form:"stage"`
	Status       models.Status `form:"status"`
	SupervisorID string        `form:"supervisorId"`
	Search       string        `form:"search"`
}

// StudentSummary is the short form embedded in other payloads
type StudentSummary struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Stage     string        `json:"stage"`
	Status    models.Status `json:"status"`
}

// NewStudentSummary builds the short form of s
func NewStudentSummary(s models.Student) StudentSummary {
	return StudentSummary{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Stage:     s.Stage,
		Status:    s.Status,
	}
}

// StudentDetailResponse is a student with its supervisor and documents
type StudentDetailResponse struct {
	models.Student
	Supervisor *SupervisorSummary `json:"supervisor,omitempty"`
	Documents  []models.Document  `json:"documents"`
}
