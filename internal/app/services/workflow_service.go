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

// WorkflowService manages the stage catalog and moves students through it
type WorkflowService interface {
	ListStages(ctx context.Context, activeOnly bool) ([]models.WorkflowStage, error)
	GetStage(ctx context.Context, id string) (*models.WorkflowStage, error)
	CreateStage(ctx context.Context, req *dto.CreateStageRequest) (*models.WorkflowStage, error)
	UpdateStage(ctx context.Context, id string, req *dto.UpdateStageRequest) (*models.WorkflowStage, error)
	DeleteStage(ctx context.Context, id string) error
	AdvanceStudent(ctx context.Context, p auth.Principal, studentID string, req *dto.AdvanceStageRequest) (*models.Student, error)
}

type workflowServiceImpl struct {
	stages   recordstore.Store[models.WorkflowStage]
	students recordstore.Store[models.Student]
	authz    *auth.AuthorizationService
	logger   zerolog.Logger
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(repos *repositories.Repositories, authz *auth.AuthorizationService, logger zerolog.Logger) WorkflowService {
	return &workflowServiceImpl{
		stages:   repos.Stages,
		students: repos.Students,
		authz:    authz,
		logger:   logger,
	}
}

// normalizeStageCode upper-cases a code and joins words with underscores
func normalizeStageCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), "_"))
}

// ListStages returns the catalog ordered by position
func (s *workflowServiceImpl) ListStages(ctx context.Context, activeOnly bool) ([]models.WorkflowStage, error) {
	var pred recordstore.Predicate[models.WorkflowStage]
	if activeOnly {
		pred = func(st models.WorkflowStage) bool { return st.Active }
	}
	stages, err := s.stages.FindAll(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("error retrieving stages: %w", err)
	}
	sort.SliceStable(stages, func(i, j int) bool {
		if stages[i].Order != stages[j].Order {
			return stages[i].Order < stages[j].Order
		}
		return stages[i].Code < stages[j].Code
	})
	return stages, nil
}

func (s *workflowServiceImpl) GetStage(ctx context.Context, id string) (*models.WorkflowStage, error) {
	stage, err := s.stages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrStageNotFound
		}
		return nil, fmt.Errorf("error retrieving stage: %w", err)
	}
	return &stage, nil
}

func (s *workflowServiceImpl) findByCode(ctx context.Context, code string) (models.WorkflowStage, error) {
	stage, err := s.stages.FindOne(ctx, func(st models.WorkflowStage) bool { return st.Code == code })
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return stage, apperrors.NewResourceNotFoundError(fmt.Sprintf("workflow stage %s not found", code))
		}
		return stage, fmt.Errorf("error retrieving stage: %w", err)
	}
	return stage, nil
}

// CreateStage adds a stage; codes are unique
func (s *workflowServiceImpl) CreateStage(ctx context.Context, req *dto.CreateStageRequest) (*models.WorkflowStage, error) {
	code := normalizeStageCode(req.Code)
	if code == "" {
		return nil, apperrors.NewBadRequestError("code cannot be empty")
	}
	if _, err := s.findByCode(ctx, code); err == nil {
		return nil, apperrors.ErrStageCodeExists
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	stage := models.WorkflowStage{
		Code:        code,
		Label:       strings.TrimSpace(req.Label),
		Description: req.Description,
		Order:       req.Order,
		Active:      true,
	}
	if req.Active != nil {
		stage.Active = *req.Active
	}

	created, err := s.stages.Create(ctx, stage)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, apperrors.ErrStageCodeExists
		}
		return nil, fmt.Errorf("error creating stage: %w", err)
	}
	s.logger.Info().Str("code", created.Code).Int("order", created.Order).Msg("Workflow stage created")
	return &created, nil
}

func (s *workflowServiceImpl) UpdateStage(ctx context.Context, id string, req *dto.UpdateStageRequest) (*models.WorkflowStage, error) {
	updated, err := s.stages.Update(ctx, id, func(st *models.WorkflowStage) error {
		if req.Label != nil {
			st.Label = strings.TrimSpace(*req.Label)
		}
		if req.Description != nil {
			st.Description = *req.Description
		}
		if req.Order != nil {
			st.Order = *req.Order
		}
		if req.Active != nil {
			st.Active = *req.Active
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrStageNotFound
		}
		return nil, fmt.Errorf("error updating stage: %w", err)
	}
	return &updated, nil
}

// DeleteStage removes a stage no student is at
func (s *workflowServiceImpl) DeleteStage(ctx context.Context, id string) error {
	stage, err := s.GetStage(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.students.Count(ctx, func(st models.Student) bool { return st.Stage == stage.Code })
	if err != nil {
		return fmt.Errorf("error counting students at stage: %w", err)
	}
	if inUse > 0 {
		return apperrors.NewCustomError(apperrors.ErrConflict,
			fmt.Sprintf("%d students are at stage %s, deactivate it instead", inUse, stage.Code)).
			WithDetails(map[string]interface{}{"students": inUse})
	}

	deleted, err := s.stages.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting stage: %w", err)
	}
	if !deleted {
		return apperrors.ErrStageNotFound
	}
	s.logger.Info().Str("code", stage.Code).Msg("Workflow stage deleted")
	return nil
}

// AdvanceStudent sets a student's stage and status. An omitted status keeps
// the current one. The supervisor reference is never touched here.
func (s *workflowServiceImpl) AdvanceStudent(ctx context.Context, p auth.Principal, studentID string, req *dto.AdvanceStageRequest) (*models.Student, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown status %q", req.Status))
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	if err := s.authz.CanAdvanceStage(p, student); err != nil {
		return nil, err
	}

	stage, err := s.findByCode(ctx, normalizeStageCode(req.Stage))
	if err != nil {
		return nil, err
	}
	if !stage.Active {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("workflow stage %s is inactive", stage.Code))
	}

	updated, err := s.students.Update(ctx, studentID, func(st *models.Student) error {
		st.Stage = stage.Code
		if req.Status != "" {
			st.Status = req.Status
		}
		if req.Remarks != nil {
			st.Remarks = *req.Remarks
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error updating student stage: %w", err)
	}

	s.logger.Info().Str("studentID", studentID).Str("stage", updated.Stage).Str("status", string(updated.Status)).Str("by", p.UserID).Msg("Student stage updated")
	return &updated, nil
}
