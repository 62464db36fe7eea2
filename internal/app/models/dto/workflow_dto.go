package dto

import "github.com/yigit/thesismatch/internal/app/models"

// CreateStageRequest represents a new workflow stage
type CreateStageRequest struct {
	Code        string `json:"code" binding:"required,stagecode"`
	Label       string `json:"label" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"required,min=1"`
	Active      *bool  `json:"active"`
}

// UpdateStageRequest carries the fields to change. The code is immutable.
type UpdateStageRequest struct {
	Label       *string `json:"label" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	Order       *int    `json:"order" binding:"omitempty,min=1"`
	Active      *bool   `json:"active"`
}

// AdvanceStageRequest moves a student to a stage, optionally with a status
type AdvanceStageRequest struct {
	Stage   string        `json:"stage" binding:"required"`
	Status  models.Status `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS VALIDATED REJECTED"`
	Remarks *string       `json:"remarks"`
}
