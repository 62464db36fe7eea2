package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
)

// WorkflowController handles the stage catalog and student progression
type WorkflowController struct {
	workflowService services.WorkflowService
}

// NewWorkflowController creates a new WorkflowController
func NewWorkflowController(workflowService services.WorkflowService) *WorkflowController {
	return &WorkflowController{workflowService: workflowService}
}

// GetStages lists the workflow stages in order
// @Summary List workflow stages
// @Tags workflow
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active stages"
// @Success 200 {object} dto.APIResponse{data=[]models.WorkflowStage} "Stages retrieved"
// @Router /workflow/stages [get]
func (c *WorkflowController) GetStages(ctx *gin.Context) {
	activeOnly := ctx.Query("active") == "true"

	stages, err := c.workflowService.ListStages(ctx, activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stages, "Stages retrieved successfully"))
}

// GetStageByID returns one workflow stage
// @Summary Get workflow stage
// @Tags workflow
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stage ID"
// @Success 200 {object} dto.APIResponse{data=models.WorkflowStage} "Stage retrieved"
// @Failure 404 {object} dto.ErrorResponse "Stage not found"
// @Router /workflow/stages/{id} [get]
func (c *WorkflowController) GetStageByID(ctx *gin.Context) {
	stage, err := c.workflowService.GetStage(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stage, "Stage retrieved successfully"))
}

// CreateStage adds a stage to the catalog
// @Summary Create workflow stage
// @Description The code is upper-cased with spaces turned into underscores and must be unique
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStageRequest true "Stage information"
// @Success 201 {object} dto.APIResponse{data=models.WorkflowStage} "Stage created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Stage code already exists"
// @Router /workflow/stages [post]
func (c *WorkflowController) CreateStage(ctx *gin.Context) {
	var req dto.CreateStageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	stage, err := c.workflowService.CreateStage(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(stage, "Stage created successfully"))
}

// UpdateStage edits a stage
// @Summary Update workflow stage
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stage ID"
// @Param request body dto.UpdateStageRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.WorkflowStage} "Stage updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Stage not found"
// @Router /workflow/stages/{id} [put]
func (c *WorkflowController) UpdateStage(ctx *gin.Context) {
	var req dto.UpdateStageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	stage, err := c.workflowService.UpdateStage(ctx, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stage, "Stage updated successfully"))
}

// DeleteStage removes a stage no student is at
// @Summary Delete workflow stage
// @Tags workflow
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stage ID"
// @Success 200 {object} dto.APIResponse "Stage deleted"
// @Failure 404 {object} dto.ErrorResponse "Stage not found"
// @Failure 409 {object} dto.ErrorResponse "Students are at this stage"
// @Router /workflow/stages/{id} [delete]
func (c *WorkflowController) DeleteStage(ctx *gin.Context) {
	if err := c.workflowService.DeleteStage(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Stage deleted successfully"))
}

// AdvanceStudent moves a student to a stage and status
// @Summary Advance a student
// @Description Sets a student's stage and status. Allowed for administrators and the student's supervisor.
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.AdvanceStageRequest true "Target stage and status"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student advanced"
// @Failure 400 {object} dto.ErrorResponse "Invalid status or inactive stage"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student or stage not found"
// @Router /workflow/students/{studentId}/stage [put]
func (c *WorkflowController) AdvanceStudent(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.AdvanceStageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.workflowService.AdvanceStudent(ctx, p, ctx.Param("studentId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student, "Student advanced successfully"))
}
