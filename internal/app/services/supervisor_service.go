package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

// SupervisorService defines the interface for supervisor operations
type SupervisorService interface {
	ListSupervisors(ctx context.Context, filter dto.SupervisorFilter) ([]dto.SupervisorResponse, error)
	GetSupervisor(ctx context.Context, id string) (*dto.SupervisorDetailResponse, error)
	CreateSupervisor(ctx context.Context, req *dto.CreateSupervisorRequest) (*dto.SupervisorResponse, error)
	UpdateSupervisor(ctx context.Context, p auth.Principal, id string, req *dto.UpdateSupervisorRequest) (*dto.SupervisorResponse, error)
	DeleteSupervisor(ctx context.Context, id string) error
}

type supervisorServiceImpl struct {
	supervisors recordstore.Store[models.Supervisor]
	students    recordstore.Store[models.Student]
	coordinator AssignmentCoordinator
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewSupervisorService creates a new SupervisorService
func NewSupervisorService(
	repos *repositories.Repositories,
	coordinator AssignmentCoordinator,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) SupervisorService {
	return &supervisorServiceImpl{
		supervisors: repos.Supervisors,
		students:    repos.Students,
		coordinator: coordinator,
		authz:       authz,
		logger:      logger,
	}
}

// ListSupervisors returns supervisors sorted by name
func (s *supervisorServiceImpl) ListSupervisors(ctx context.Context, filter dto.SupervisorFilter) ([]dto.SupervisorResponse, error) {
	domain := strings.TrimSpace(filter.Domain)
	supervisors, err := s.supervisors.FindAll(ctx, func(sup models.Supervisor) bool {
		if filter.Available != nil && sup.Available != *filter.Available {
			return false
		}
		return domain == "" || sup.Domains.Contains(domain)
	})
	if err != nil {
		return nil, fmt.Errorf("error retrieving supervisors: %w", err)
	}

	sort.SliceStable(supervisors, func(i, j int) bool {
		return strings.ToLower(supervisors[i].LastName) < strings.ToLower(supervisors[j].LastName)
	})
	out := make([]dto.SupervisorResponse, 0, len(supervisors))
	for _, sup := range supervisors {
		out = append(out, dto.NewSupervisorResponse(sup))
	}
	return out, nil
}

// GetSupervisor returns a supervisor with the students it supervises
func (s *supervisorServiceImpl) GetSupervisor(ctx context.Context, id string) (*dto.SupervisorDetailResponse, error) {
	supervisor, err := s.supervisors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("error retrieving supervisor: %w", err)
	}

	students, err := s.students.FindAll(ctx, func(st models.Student) bool { return st.AssignedTo(id) })
	if err != nil {
		return nil, fmt.Errorf("error retrieving supervised students: %w", err)
	}
	summaries := make([]dto.StudentSummary, 0, len(students))
	for _, st := range students {
		summaries = append(summaries, dto.NewStudentSummary(st))
	}

	return &dto.SupervisorDetailResponse{
		SupervisorResponse: dto.NewSupervisorResponse(supervisor),
		Students:           summaries,
	}, nil
}

func (s *supervisorServiceImpl) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	n, err := s.supervisors.Count(ctx, func(sup models.Supervisor) bool {
		return sup.ID != exceptID && models.NormalizeEmail(sup.Email) == email
	})
	if err != nil {
		return false, fmt.Errorf("error checking if email exists: %w", err)
	}
	return n > 0, nil
}

// CreateSupervisor registers a supervisor with an empty load
func (s *supervisorServiceImpl) CreateSupervisor(ctx context.Context, req *dto.CreateSupervisorRequest) (*dto.SupervisorResponse, error) {
	email := models.NormalizeEmail(req.Email)
	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	supervisor := models.Supervisor{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Domains:   models.NewDomains(req.Domains...),
		MaxQuota:  models.DefaultMaxQuota,
		Available: true,
		Biography: req.Biography,
		UserID:    req.UserID,
	}
	if req.MaxQuota != nil {
		supervisor.MaxQuota = *req.MaxQuota
	}
	if req.Available != nil {
		supervisor.Available = *req.Available
	}
	if supervisor.MaxQuota < 1 {
		return nil, apperrors.NewBadRequestError("maxQuota must be at least 1")
	}

	created, err := s.supervisors.Create(ctx, supervisor)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating supervisor: %w", err)
	}

	s.logger.Info().Str("supervisorID", created.ID).Int("maxQuota", created.MaxQuota).Msg("Supervisor created")
	resp := dto.NewSupervisorResponse(created)
	return &resp, nil
}

// UpdateSupervisor applies the given fields. A quota below the current load
// is refused; the check runs inside the record update so it sees the load
// left by concurrent assignments.
func (s *supervisorServiceImpl) UpdateSupervisor(ctx context.Context, p auth.Principal, id string, req *dto.UpdateSupervisorRequest) (*dto.SupervisorResponse, error) {
	if err := s.authz.CanEditSupervisor(p, id, req); err != nil {
		return nil, err
	}
	if req.MaxQuota != nil && *req.MaxQuota < 1 {
		return nil, apperrors.NewBadRequestError("maxQuota must be at least 1")
	}

	var email string
	if req.Email != nil {
		email = models.NormalizeEmail(*req.Email)
		taken, err := s.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrEmailAlreadyExists
		}
	}

	updated, err := s.supervisors.Update(ctx, id, func(sup *models.Supervisor) error {
		if req.MaxQuota != nil {
			if *req.MaxQuota < sup.CurrentLoad {
				return apperrors.NewCustomError(apperrors.ErrConflict,
					fmt.Sprintf("maxQuota %d is below the current load of %d students", *req.MaxQuota, sup.CurrentLoad)).
					WithDetails(map[string]interface{}{"currentLoad": sup.CurrentLoad, "maxQuota": *req.MaxQuota})
			}
			sup.MaxQuota = *req.MaxQuota
		}
		if req.FirstName != nil {
			sup.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			sup.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			sup.Email = email
		}
		if req.Domains != nil {
			sup.Domains = models.NewDomains(*req.Domains...)
		}
		if req.Available != nil {
			sup.Available = *req.Available
		}
		if req.Biography != nil {
			sup.Biography = *req.Biography
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrResourceAlreadyExists):
			return nil, apperrors.ErrEmailAlreadyExists
		case errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, apperrors.ErrSupervisorNotFound
		}
		return nil, err
	}

	resp := dto.NewSupervisorResponse(updated)
	return &resp, nil
}

// DeleteSupervisor removes a supervisor through the coordinator, which
// refuses while students are assigned
func (s *supervisorServiceImpl) DeleteSupervisor(ctx context.Context, id string) error {
	return s.coordinator.DeleteSupervisor(ctx, id)
}
