// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/middleware"
	"github.com/yigit/thesismatch/internal/pkg/helpers"
)

// principal returns the authenticated caller or writes a 401
func principal(ctx *gin.Context) (appauth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		errorDetail = errorDetail.WithDetails("User information not found in request context")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return p, ok
}

// respondList writes items, as one page when the query asks for pagination
func respondList[T any](ctx *gin.Context, items []T, message string) {
	page, size, ok := helpers.ParsePaginationParams(ctx)
	if !ok {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items, message))
		return
	}
	pageItems, info := helpers.Paginate(items, page, size)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{Items: pageItems, Pagination: info}, message))
}
