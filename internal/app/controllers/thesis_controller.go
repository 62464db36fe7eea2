package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
	"github.com/yigit/thesismatch/internal/pkg/helpers"
)

// ThesisController serves the archive of defended theses
type ThesisController struct {
	thesisService services.ThesisService
	logger        zerolog.Logger
}

// NewThesisController creates a new ThesisController
func NewThesisController(thesisService services.ThesisService, logger zerolog.Logger) *ThesisController {
	return &ThesisController{
		thesisService: thesisService,
		logger:        logger,
	}
}

// GetAllTheses lists archived theses, one page at a time
// @Summary List archived theses
// @Description Always paginated, 20 per page unless size is given
// @Tags theses
// @Produce json
// @Security BearerAuth
// @Param year query int false "Defense year"
// @Param supervisor query string false "Part of the supervisor's name"
// @Param domain query string false "Part of a domain tag"
// @Param q query string false "Matches title, summary or author"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size, at most 100"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse{items=[]models.ThesisRecord}} "Theses retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /theses [get]
func (c *ThesisController) GetAllTheses(ctx *gin.Context) {
	var filter dto.ThesisFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	theses, err := c.thesisService.ListTheses(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size, ok := helpers.ParsePaginationParams(ctx)
	if !ok {
		page, size = helpers.DefaultPage, helpers.DefaultPageSize
	}
	items, info := helpers.Paginate(theses, page, size)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{Items: items, Pagination: info}, "Theses retrieved successfully"))
}

// GetThesisByID returns one archived thesis
// @Summary Get archived thesis
// @Tags theses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thesis ID"
// @Success 200 {object} dto.APIResponse{data=models.ThesisRecord} "Thesis retrieved"
// @Failure 404 {object} dto.ErrorResponse "Thesis not found"
// @Router /theses/{id} [get]
func (c *ThesisController) GetThesisByID(ctx *gin.Context) {
	thesis, err := c.thesisService.GetThesis(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(thesis, "Thesis retrieved successfully"))
}

// CreateThesis archives a thesis
// @Summary Archive thesis
// @Tags theses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateThesisRequest true "Thesis information"
// @Success 201 {object} dto.APIResponse{data=models.ThesisRecord} "Thesis archived"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /theses [post]
func (c *ThesisController) CreateThesis(ctx *gin.Context) {
	var req dto.CreateThesisRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	thesis, err := c.thesisService.CreateThesis(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(thesis, "Thesis archived successfully"))
}

// UpdateThesis updates an archived thesis
// @Summary Update archived thesis
// @Tags theses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thesis ID"
// @Param request body dto.UpdateThesisRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.ThesisRecord} "Thesis updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Thesis not found"
// @Router /theses/{id} [put]
func (c *ThesisController) UpdateThesis(ctx *gin.Context) {
	var req dto.UpdateThesisRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	thesis, err := c.thesisService.UpdateThesis(ctx, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(thesis, "Thesis updated successfully"))
}

// DeleteThesis removes an archived thesis
// @Summary Delete archived thesis
// @Tags theses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thesis ID"
// @Success 200 {object} dto.APIResponse "Thesis deleted"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Thesis not found"
// @Router /theses/{id} [delete]
func (c *ThesisController) DeleteThesis(ctx *gin.Context) {
	if err := c.thesisService.DeleteThesis(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Thesis deleted successfully"))
}

// ImportTheses archives a batch of theses
// @Summary Import archived theses
// @Description Archives every complete row. Incomplete rows are skipped and reported with their index.
// @Tags theses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ImportThesesRequest true "Rows to archive"
// @Success 201 {object} dto.APIResponse{data=dto.ImportThesesResponse} "Import finished"
// @Failure 400 {object} dto.ErrorResponse "Empty batch"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /theses/import [post]
func (c *ThesisController) ImportTheses(ctx *gin.Context) {
	var req dto.ImportThesesRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid thesis import payload")
		return
	}

	result, err := c.thesisService.ImportTheses(ctx, req.Theses)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(result, "Theses imported"))
}
