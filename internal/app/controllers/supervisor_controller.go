package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
)

// SupervisorController handles supervisor related operations
type SupervisorController struct {
	supervisorService services.SupervisorService
	logger            zerolog.Logger
}

// NewSupervisorController creates a new SupervisorController
func NewSupervisorController(supervisorService services.SupervisorService, logger zerolog.Logger) *SupervisorController {
	return &SupervisorController{
		supervisorService: supervisorService,
		logger:            logger,
	}
}

// GetAllSupervisors lists supervisors
// @Summary List supervisors
// @Description Lists supervisors with their fill rate, optionally filtered by availability or domain. Paginated when page or size is given.
// @Tags supervisors
// @Produce json
// @Security BearerAuth
// @Param available query bool false "Only available (true) or unavailable (false) supervisors"
// @Param domain query string false "Domain tag, case-insensitive"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=[]dto.SupervisorResponse} "Supervisors retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /supervisors [get]
func (c *SupervisorController) GetAllSupervisors(ctx *gin.Context) {
	var filter dto.SupervisorFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	supervisors, err := c.supervisorService.ListSupervisors(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondList(ctx, supervisors, "Supervisors retrieved successfully")
}

// GetSupervisorByID returns one supervisor with its students
// @Summary Get supervisor by ID
// @Tags supervisors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supervisor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SupervisorDetailResponse} "Supervisor retrieved"
// @Failure 404 {object} dto.ErrorResponse "Supervisor not found"
// @Router /supervisors/{id} [get]
func (c *SupervisorController) GetSupervisorByID(ctx *gin.Context) {
	supervisor, err := c.supervisorService.GetSupervisor(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(supervisor, "Supervisor retrieved successfully"))
}

// CreateSupervisor creates a supervisor
// @Summary Create supervisor
// @Description Creates a supervisor. The quota defaults to 10 and the load always starts at 0.
// @Tags supervisors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSupervisorRequest true "Supervisor information"
// @Success 201 {object} dto.APIResponse{data=dto.SupervisorResponse} "Supervisor created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /supervisors [post]
func (c *SupervisorController) CreateSupervisor(ctx *gin.Context) {
	var req dto.CreateSupervisorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	supervisor, err := c.supervisorService.CreateSupervisor(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(supervisor, "Supervisor created successfully"))
}

// UpdateSupervisor updates a supervisor
// @Summary Update supervisor
// @Description Updates a supervisor. Supervisors may edit their own profile but only an administrator can change the quota, which can never drop below the current load.
// @Tags supervisors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supervisor ID"
// @Param request body dto.UpdateSupervisorRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.SupervisorResponse} "Supervisor updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Supervisor not found"
// @Failure 409 {object} dto.ErrorResponse "Quota below current load or email already exists"
// @Router /supervisors/{id} [put]
func (c *SupervisorController) UpdateSupervisor(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSupervisorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	supervisor, err := c.supervisorService.UpdateSupervisor(ctx, p, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(supervisor, "Supervisor updated successfully"))
}

// DeleteSupervisor deletes a supervisor with no assigned students
// @Summary Delete supervisor
// @Tags supervisors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Supervisor ID"
// @Success 200 {object} dto.APIResponse "Supervisor deleted"
// @Failure 404 {object} dto.ErrorResponse "Supervisor not found"
// @Failure 409 {object} dto.ErrorResponse "Supervisor still has assigned students"
// @Router /supervisors/{id} [delete]
func (c *SupervisorController) DeleteSupervisor(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.supervisorService.DeleteSupervisor(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("supervisorID", id).Msg("Supervisor deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Supervisor deleted successfully"))
}
