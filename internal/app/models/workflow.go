package models

// Default stage codes
const (
	StageTopicSubmission        = "DEPOT_SUJET"
	StageTopicValidation        = "VALIDATION_SUJET"
	StagePlanSubmission         = "DEPOT_PLAN"
	StagePlanFeedback           = "FEEDBACK_PLAN"
	StageIntermediateSubmission = "DEPOT_INTERMEDIAIRE"
	StageFinalSubmission        = "DEPOT_FINAL"
)

// WorkflowStage is one step of the thesis workflow
type WorkflowStage struct {
	Base
	Code        string `json:"code" example:"DEPOT_SUJET"`
	Label       string `json:"label" example:"Topic submission"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order" example:"1"`
	Active      bool   `json:"active" example:"true"`
}

// DefaultStages is the catalog seeded on an empty store
func DefaultStages() []WorkflowStage {
	return []WorkflowStage{
		{Code: StageTopicSubmission, Label: "Topic submission", Description: "The student submits a thesis topic proposal", Order: 1, Active: true},
		{Code: StageTopicValidation, Label: "Topic validation", Description: "The supervisor validates the proposed topic", Order: 2, Active: true},
		{Code: StagePlanSubmission, Label: "Plan submission", Description: "The student submits a detailed thesis plan", Order: 3, Active: true},
		{Code: StagePlanFeedback, Label: "Plan feedback", Description: "The supervisor reviews the plan", Order: 4, Active: true},
		{Code: StageIntermediateSubmission, Label: "Intermediate submission", Description: "The student submits an intermediate draft", Order: 5, Active: true},
		{Code: StageFinalSubmission, Label: "Final submission", Description: "The student submits the final thesis", Order: 6, Active: true},
	}
}
