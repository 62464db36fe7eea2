package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
)

// StatsController serves the administration dashboards
type StatsController struct {
	statsService services.StatsService
}

// NewStatsController creates a new StatsController
func NewStatsController(statsService services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// GetOverview returns global counters
// @Summary Global statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OverviewStats} "Statistics computed"
// @Router /stats [get]
func (c *StatsController) GetOverview(ctx *gin.Context) {
	stats, err := c.statsService.Overview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, "Statistics computed successfully"))
}

// GetSupervisorLoads returns the load of every supervisor, fullest first
// @Summary Supervisor load statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.SupervisorStats} "Statistics computed"
// @Router /stats/supervisors [get]
func (c *StatsController) GetSupervisorLoads(ctx *gin.Context) {
	stats, err := c.statsService.SupervisorLoads(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, "Statistics computed successfully"))
}

// GetDomains returns how often each domain tag is used
// @Summary Domain statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.DomainStat} "Statistics computed"
// @Router /stats/domains [get]
func (c *StatsController) GetDomains(ctx *gin.Context) {
	stats, err := c.statsService.Domains(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, "Statistics computed successfully"))
}

// HealthController reports liveness
type HealthController struct {
	started time.Time
}

// NewHealthController creates a new HealthController
func NewHealthController() *HealthController {
	return &HealthController{started: time.Now()}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Uptime string `json:"uptime" example:"1h2m3s"`
}

// Health reports that the process is serving requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=controllers.HealthResponse} "Service is up"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	uptime := time.Since(c.started).Truncate(time.Second)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{Status: "ok", Uptime: uptime.String()}, ""))
}
