package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/auth"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
	"github.com/yigit/thesismatch/internal/pkg/validation"
)

// Define custom error types for auth service
var (
	ErrProfileRequired = apperrors.NewBadRequestError("STUDENT and SUPERVISOR accounts must be linked to an existing profile")
	ErrProfileLinked   = apperrors.NewConflictError("this profile is already linked to another account")
)

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, p appauth.Principal, current, next string) error
}

type authServiceImpl struct {
	users       recordstore.Store[models.User]
	students    recordstore.Store[models.Student]
	supervisors recordstore.Store[models.Supervisor]
	jwtService  *auth.JWTService
	hasher      *auth.PasswordHasher
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		users:       repos.Users,
		students:    repos.Students,
		supervisors: repos.Supervisors,
		jwtService:  jwtService,
		hasher:      hasher,
		logger:      logger,
	}
}

func (s *authServiceImpl) findByEmail(ctx context.Context, email string) (models.User, error) {
	return s.users.FindOne(ctx, func(u models.User) bool { return models.NormalizeEmail(u.Email) == email })
}

// Login authenticates a user. Unknown emails and wrong passwords give the
// same error.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.NewBadRequestError("email and password are required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.logger.Warn().Str("email", email).Msg("Login attempt for unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	if !s.hasher.Check(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("userID", user.ID).Msg("Login attempt with a wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: expiresIn},
		User:  dto.NewUserResponse(user),
	}, nil
}

// Register creates an account. STUDENT and SUPERVISOR accounts are linked to
// their profile, and a supervisor profile records the account it belongs to.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if !req.Role.Valid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown role %q", req.Role))
	}
	email := models.NormalizeEmail(req.Email)

	if _, err := s.findByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}

	user := models.User{
		Email:     email,
		Role:      req.Role,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := s.resolveProfile(ctx, req, &user); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user.PasswordHash = hash

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	if created.SupervisorID != nil {
		userID := created.ID
		if _, err := s.supervisors.Update(ctx, *created.SupervisorID, func(sup *models.Supervisor) error {
			sup.UserID = &userID
			return nil
		}); err != nil {
			s.logger.Error().Err(err).Str("userID", created.ID).Str("supervisorID", *created.SupervisorID).Msg("Failed to link supervisor profile to account")
		}
	}

	s.logger.Info().Str("userID", created.ID).Str("role", string(created.Role)).Msg("User registered")
	resp := dto.NewUserResponse(created)
	return &resp, nil
}

// resolveProfile checks the profile a STUDENT or SUPERVISOR account links to
func (s *authServiceImpl) resolveProfile(ctx context.Context, req *dto.RegisterRequest, user *models.User) error {
	switch req.Role {
	case models.RoleStudent:
		if req.StudentID == nil || *req.StudentID == "" {
			return ErrProfileRequired
		}
		id := *req.StudentID
		if _, err := s.students.FindByID(ctx, id); err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error retrieving student: %w", err)
		}
		if err := s.ensureUnlinked(ctx, func(u models.User) bool { return u.StudentID != nil && *u.StudentID == id }); err != nil {
			return err
		}
		user.StudentID = &id
	case models.RoleSupervisor:
		if req.SupervisorID == nil || *req.SupervisorID == "" {
			return ErrProfileRequired
		}
		id := *req.SupervisorID
		if _, err := s.supervisors.FindByID(ctx, id); err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return apperrors.ErrSupervisorNotFound
			}
			return fmt.Errorf("error retrieving supervisor: %w", err)
		}
		if err := s.ensureUnlinked(ctx, func(u models.User) bool { return u.SupervisorID != nil && *u.SupervisorID == id }); err != nil {
			return err
		}
		user.SupervisorID = &id
	}
	return nil
}

func (s *authServiceImpl) ensureUnlinked(ctx context.Context, pred recordstore.Predicate[models.User]) error {
	n, err := s.users.Count(ctx, pred)
	if err != nil {
		return fmt.Errorf("error checking linked accounts: %w", err)
	}
	if n > 0 {
		return ErrProfileLinked
	}
	return nil
}

// Me returns the account and its linked profile
func (s *authServiceImpl) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	resp := &dto.MeResponse{User: dto.NewUserResponse(user)}
	if user.StudentID != nil {
		student, err := s.students.FindByID(ctx, *user.StudentID)
		if err == nil {
			resp.Student = &student
		} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, fmt.Errorf("error retrieving student: %w", err)
		}
	}
	if user.SupervisorID != nil {
		supervisor, err := s.supervisors.FindByID(ctx, *user.SupervisorID)
		if err == nil {
			sr := dto.NewSupervisorResponse(supervisor)
			resp.Supervisor = &sr
		} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, fmt.Errorf("error retrieving supervisor: %w", err)
		}
	}
	return resp, nil
}

// ChangePassword replaces the caller's password once the current one checks out
func (s *authServiceImpl) ChangePassword(ctx context.Context, p appauth.Principal, current, next string) error {
	if current == "" || next == "" {
		return apperrors.NewBadRequestError("current and new passwords are required")
	}
	if !validation.Password(next) {
		return apperrors.NewBadRequestError(validation.Message(validation.TagPassword, "newPassword"))
	}

	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error retrieving user: %w", err)
	}
	if !s.hasher.Check(user.PasswordHash, current) {
		s.logger.Warn().Str("userID", user.ID).Msg("Password change with a wrong current password")
		return apperrors.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if _, err := s.users.Update(ctx, user.ID, func(u *models.User) error {
		u.PasswordHash = hash
		return nil
	}); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Msg("Password changed")
	return nil
}
