package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
)

// MatchingController exposes supervisor suggestions and assignments
type MatchingController struct {
	matching    services.MatchingService
	coordinator services.AssignmentCoordinator
	logger      zerolog.Logger
}

// NewMatchingController creates a new MatchingController
func NewMatchingController(matching services.MatchingService, coordinator services.AssignmentCoordinator, logger zerolog.Logger) *MatchingController {
	return &MatchingController{
		matching:    matching,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Suggest ranks supervisors for a student
// @Summary Suggest supervisors
// @Description Ranks available supervisors with free capacity by topical fit (70%) and capacity (30%)
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param limit query int false "Maximum number of suggestions"
// @Success 200 {object} dto.APIResponse{data=dto.MatchingResponse} "Suggestions computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /matching/{studentId} [get]
func (c *MatchingController) Suggest(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid limit")
			errorDetail = errorDetail.WithDetails("limit must be a non-negative number")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		limit = n
	}

	resp, err := c.matching.Suggest(ctx, p, ctx.Param("studentId"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Suggestions computed successfully"))
}

// Assign links a student to a supervisor
// @Summary Assign a supervisor
// @Description Assigns a supervisor to a student, moving the student off its previous supervisor if any
// @Tags matching
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignRequest true "Student and supervisor"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Supervisor assigned"
// @Failure 400 {object} dto.ErrorResponse "Missing ids"
// @Failure 404 {object} dto.ErrorResponse "Student or supervisor not found"
// @Failure 409 {object} dto.ErrorResponse "Supervisor unavailable or quota reached"
// @Router /matching/assign [post]
func (c *MatchingController) Assign(ctx *gin.Context) {
	var req dto.AssignRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.coordinator.Assign(ctx, req.StudentID, req.SupervisorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Supervisor assigned successfully"))
}

// Unassign removes a student's supervisor
// @Summary Unassign a supervisor
// @Description Removes the supervisor of a student and frees one slot of its quota
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Supervisor unassigned"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Student has no supervisor"
// @Router /matching/assign/{studentId} [delete]
func (c *MatchingController) Unassign(ctx *gin.Context) {
	resp, err := c.coordinator.Unassign(ctx, ctx.Param("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Supervisor unassigned successfully"))
}

// Reconcile recomputes every supervisor load from the students
// @Summary Reconcile supervisor loads
// @Description Recomputes each supervisor's current load from the students referencing it and reports the corrections
// @Tags matching
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReconcileResponse} "Loads reconciled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /matching/reconcile [post]
func (c *MatchingController) Reconcile(ctx *gin.Context) {
	resp, err := c.coordinator.Reconcile(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if len(resp.Corrections) > 0 {
		c.logger.Warn().Int("corrections", len(resp.Corrections)).Msg("Supervisor loads were out of sync")
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Loads reconciled successfully"))
}
