package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/auth"
	"github.com/yigit/thesismatch/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    dto.ErrorCode   `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body
}

func TestHandleAPIError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		msg    string
	}{
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "student not found"},
		{"wrapped not found", fmt.Errorf("error retrieving: %w", apperrors.ErrSupervisorNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "supervisor not found"},
		{"quota", apperrors.ErrQuotaReached, http.StatusConflict, dto.ErrorCodeConflict, "quota reached"},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "email already exists"},
		{"already exists", apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
		{"validation", apperrors.NewBadRequestError("studentId is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "studentId is required"},
		{"forbidden", appauth.ErrNotSupervising, http.StatusForbidden, dto.ErrorCodeForbidden, "you do not supervise this student"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run("should map "+tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.Equal(t, tc.msg, body.Error.Message)
		})
	}

	t.Run("should pass custom error details through", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		err := apperrors.NewCustomError(apperrors.ErrConflict, "quota below load").
			WithDetails(map[string]interface{}{"currentLoad": 3})
		HandleAPIError(c, err)

		assert.Equal(t, http.StatusConflict, w.Code)
		body := decodeError(t, w)
		assert.JSONEq(t, `{"currentLoad":3}`, string(body.Error.Details))
	})
}

func TestBindJSON(t *testing.T) {
	require.NoError(t, validation.RegisterWithGin())

	handler := func(c *gin.Context) {
		var req dto.RegisterRequest
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	}

	call := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		_, r := gin.CreateTestContext(w)
		r.POST("/register", handler)
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("should accept a valid payload", func(t *testing.T) {
		w := call(`{"email":"a@b.example","password":"secret123","firstName":"A","lastName":"B","role":"ADMIN"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should list every failed field", func(t *testing.T) {
		w := call(`{"email":"nope","password":"short","firstName":"A","role":"ROOT"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
		var details []dto.ErrorDetail
		require.NoError(t, json.Unmarshal(body.Error.Details, &details))

		fields := map[string]string{}
		for _, d := range details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "email must be a valid email address", fields["email"])
		assert.Contains(t, fields["password"], "at least 8 characters")
		assert.Equal(t, "lastName is required", fields["lastName"])
		assert.Contains(t, fields["role"], "must be one of")
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		w := call(`{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "Invalid request format", body.Error.Message)
	})
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "thesismatch"})
	m := NewAuthMiddleware(jwtService)

	supervisorID := "sup-1"
	token, _, err := jwtService.GenerateToken(models.User{
		Base:         models.Base{ID: "u-1"},
		Email:        "prof@univ.example",
		Role:         models.RoleSupervisor,
		SupervisorID: &supervisorID,
	})
	require.NoError(t, err)

	newRouter := func(roles ...models.Role) *gin.Engine {
		r := gin.New()
		r.GET("/me", m.JWTAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
			p, ok := CurrentPrincipal(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"userID": p.UserID, "supervisorID": p.SupervisorID, "role": p.Role})
		})
		return r
	}

	serve := func(r *gin.Engine, target, header string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("should store the principal from a bearer token", func(t *testing.T) {
		w := serve(newRouter(models.RoleSupervisor), "/me", "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userID":"u-1","supervisorID":"sup-1","role":"SUPERVISOR"}`, w.Body.String())
	})

	t.Run("should accept a raw token in the query", func(t *testing.T) {
		w := serve(newRouter(models.RoleSupervisor), "/me?token="+token, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should require a token", func(t *testing.T) {
		w := serve(newRouter(models.RoleSupervisor), "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, w).Error.Code)
	})

	t.Run("should reject an invalid token", func(t *testing.T) {
		w := serve(newRouter(models.RoleSupervisor), "/me", "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeInvalidToken, decodeError(t, w).Error.Code)
	})

	t.Run("should refuse a role outside the list", func(t *testing.T) {
		w := serve(newRouter(models.RoleAdmin), "/me", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/missing", line["path"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
}
