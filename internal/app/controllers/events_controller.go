package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
)

// EventsController streams assignment changes over a WebSocket
type EventsController struct {
	hub    *websocket.Hub
	logger zerolog.Logger
}

// NewEventsController creates a new EventsController
func NewEventsController(hub *websocket.Hub, logger zerolog.Logger) *EventsController {
	return &EventsController{hub: hub, logger: logger}
}

// Stream godoc
// @Summary Follow assignment changes
// @Description Upgrades to a WebSocket that pushes assignment events. Administrators receive every event, supervisors and students the ones touching their own profile. Browsers pass the token as ?token=.
// @Tags events
// @Security BearerAuth
// @Param token query string false "Bearer token, for clients that cannot set headers"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Account not linked to a profile"
// @Failure 503 {object} dto.ErrorResponse "Event stream stopped"
// @Router /events/ws [get]
func (c *EventsController) Stream(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	topics := services.EventTopics(p)
	if len(topics) == 0 {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("account is not linked to a student or supervisor profile"))
		return
	}

	if err := c.hub.Serve(ctx.Writer, ctx.Request, p.UserID, topics); err != nil {
		if errors.Is(err, websocket.ErrHubClosed) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnavailable, "Event stream unavailable")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
		c.logger.Debug().Err(err).Str("userID", p.UserID).Msg("Event stream not opened")
	}
}
