package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/pkg/validation"
)

// BindJSON binds the request body into obj. On failure it writes a 400 with
// one entry per failed field and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return handleBindError(c, c.ShouldBindJSON(obj))
}

// BindForm binds form or multipart fields into obj, see BindJSON
func BindForm(c *gin.Context, obj interface{}) bool {
	return handleBindError(c, c.ShouldBind(obj))
}

// BindQuery binds query parameters into obj, see BindJSON
func BindQuery(c *gin.Context, obj interface{}) bool {
	return handleBindError(c, c.ShouldBindQuery(obj))
}

func handleBindError(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		list := dto.NewValidationErrors()
		for _, fe := range verrs {
			list.AddError(fe.Field(), formatValidationError(fe))
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
		errorDetail = errorDetail.WithDetails(list.Errors)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
	errorDetail = errorDetail.WithDetails(err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
	return false
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	if msg := validation.Message(e.Tag(), e.Field()); msg != "" {
		return msg
	}
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
