package dto

import "github.com/yigit/thesismatch/internal/app/models"

// CreateSupervisorRequest represents a new supervisor
type CreateSupervisorRequest struct {
	FirstName string   `json:"firstName" binding:"required"`
	LastName  string   `json:"lastName" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Domains   []string `json:"domains" binding:"omitempty,dive,domaintag"`
	MaxQuota  *int     `json:"maxQuota" binding:"omitempty,min=1"`
	Available *bool    `json:"available"`
	Biography string   `json:"biography"`
	UserID    *string  `json:"userId"`
}

// UpdateSupervisorRequest carries the fields to change. The load is not
// part of it: only assignments move it.
type UpdateSupervisorRequest struct {
	FirstName *string   `json:"firstName" binding:"omitempty,min=1"`
	LastName  *string   `json:"lastName" binding:"omitempty,min=1"`
	Email     *string   `json:"email" binding:"omitempty,email"`
	Domains   *[]string `json:"domains" binding:"omitempty,dive,domaintag"`
	MaxQuota  *int      `json:"maxQuota" binding:"omitempty,min=1"`
	Available *bool     `json:"available"`
	Biography *string   `json:"biography"`
}

// SupervisorFilter narrows the supervisor list
type SupervisorFilter struct {
	Available *bool  `form:"available"`
	Domain    string `form:"domain"`
}

// SupervisorResponse is a supervisor with its derived capacity figures
type SupervisorResponse struct {
	models.Supervisor
	FillRate       int `json:"fillRate" example:"30"`
	RemainingSlots int `json:"remainingSlots" example:"7"`
}

// NewSupervisorResponse adds the derived figures to s
func NewSupervisorResponse(s models.Supervisor) SupervisorResponse {
	return SupervisorResponse{
		Supervisor:     s,
		FillRate:       s.FillRate(),
		RemainingSlots: s.RemainingSlots(),
	}
}

// SupervisorSummary is the short form embedded in other payloads
type SupervisorSummary struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Domains   models.Domains `json:"domains"`
}

// NewSupervisorSummary builds the short form of s
func NewSupervisorSummary(s models.Supervisor) SupervisorSummary {
	return SupervisorSummary{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Domains:   s.Domains,
	}
}

// SupervisorDetailResponse is a supervisor with the students it supervises
type SupervisorDetailResponse struct {
	SupervisorResponse
	Students []StudentSummary `json:"students"`
}
