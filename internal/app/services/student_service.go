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

// StudentService defines the interface for student operations
type StudentService interface {
	ListStudents(ctx context.Context, p auth.Principal, filter dto.StudentFilter) ([]models.Student, error)
	GetStudent(ctx context.Context, p auth.Principal, id string) (*dto.StudentDetailResponse, error)
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, p auth.Principal, id string, req *dto.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	students    recordstore.Store[models.Student]
	supervisors recordstore.Store[models.Supervisor]
	documents   recordstore.Store[models.Document]
	coordinator AssignmentCoordinator
	authz       *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	repos *repositories.Repositories,
	coordinator AssignmentCoordinator,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		students:    repos.Students,
		supervisors: repos.Supervisors,
		documents:   repos.Documents,
		coordinator: coordinator,
		authz:       authz,
		logger:      logger,
	}
}

// ListStudents returns the students visible to p, filtered and sorted by name
func (s *studentServiceImpl) ListStudents(ctx context.Context, p auth.Principal, filter dto.StudentFilter) ([]models.Student, error) {
	scope, err := s.authz.StudentScope(p)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown status %q", filter.Status))
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	students, err := s.students.FindAll(ctx, func(st models.Student) bool {
		if scope != nil && !scope(st) {
			return false
		}
		if filter.Stage != "" && st.Stage != filter.Stage {
			return false
		}
		if filter.Status != "" && st.Status != filter.Status {
			return false
		}
		if filter.SupervisorID != "" && !st.AssignedTo(filter.SupervisorID) {
			return false
		}
		return search == "" || matchesSearch(st, search)
	})
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}

	sort.SliceStable(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return strings.ToLower(students[i].LastName) < strings.ToLower(students[j].LastName)
		}
		return strings.ToLower(students[i].FirstName) < strings.ToLower(students[j].FirstName)
	})
	return students, nil
}

func matchesSearch(st models.Student, search string) bool {
	for _, field := range []string{st.FirstName, st.LastName, st.Email, st.ThesisTitle, st.Program} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// GetStudent returns a student with its supervisor and documents
func (s *studentServiceImpl) GetStudent(ctx context.Context, p auth.Principal, id string) (*dto.StudentDetailResponse, error) {
	student, err := s.authz.CanViewStudentID(ctx, p, id)
	if err != nil {
		return nil, err
	}

	detail := &dto.StudentDetailResponse{Student: student, Documents: []models.Document{}}
	if student.HasSupervisor() {
		supervisor, err := s.supervisors.FindByID(ctx, *student.SupervisorID)
		switch {
		case err == nil:
			summary := dto.NewSupervisorSummary(supervisor)
			detail.Supervisor = &summary
		case errors.Is(err, apperrors.ErrResourceNotFound):
			s.logger.Warn().Str("studentID", id).Str("supervisorID", *student.SupervisorID).Msg("Student references a missing supervisor")
		default:
			return nil, fmt.Errorf("error retrieving supervisor: %w", err)
		}
	}

	docs, err := s.documents.FindAll(ctx, func(d models.Document) bool { return d.StudentID == id })
	if err != nil {
		return nil, fmt.Errorf("error retrieving documents: %w", err)
	}
	detail.Documents = docs
	return detail, nil
}

func (s *studentServiceImpl) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	n, err := s.students.Count(ctx, func(st models.Student) bool {
		return st.ID != exceptID && models.NormalizeEmail(st.Email) == email
	})
	if err != nil {
		return false, fmt.Errorf("error checking if email exists: %w", err)
	}
	return n > 0, nil
}

// CreateStudent registers a student at the first workflow stage, unassigned
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	email := models.NormalizeEmail(req.Email)
	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	student, err := s.students.Create(ctx, models.Student{
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            email,
		Program:          strings.TrimSpace(req.Program),
		Year:             strings.TrimSpace(req.Year),
		ThesisTitle:      req.ThesisTitle,
		Summary:          req.Summary,
		ResearchQuestion: req.ResearchQuestion,
		ImmersionSite:    req.ImmersionSite,
		Remarks:          req.Remarks,
		Domains:          models.NewDomains(req.Domains...),
		Stage:            models.StageTopicSubmission,
		Status:           models.StatusPending,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Str("studentID", student.ID).Msg("Student created")
	return &student, nil
}

// UpdateStudent applies the given fields. The supervisor reference is not
// editable here.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, p auth.Principal, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.authz.CanEditStudent(p, id, req); err != nil {
		return nil, err
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

	updated, err := s.students.Update(ctx, id, func(st *models.Student) error {
		if req.FirstName != nil {
			st.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			st.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			st.Email = email
		}
		if req.Program != nil {
			st.Program = strings.TrimSpace(*req.Program)
		}
		if req.Year != nil {
			st.Year = strings.TrimSpace(*req.Year)
		}
		if req.ThesisTitle != nil {
			st.ThesisTitle = *req.ThesisTitle
		}
		if req.Summary != nil {
			st.Summary = *req.Summary
		}
		if req.ResearchQuestion != nil {
			st.ResearchQuestion = *req.ResearchQuestion
		}
		if req.ImmersionSite != nil {
			st.ImmersionSite = *req.ImmersionSite
		}
		if req.Remarks != nil {
			st.Remarks = *req.Remarks
		}
		if req.Domains != nil {
			st.Domains = models.NewDomains(*req.Domains...)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrResourceAlreadyExists):
			return nil, apperrors.ErrEmailAlreadyExists
		case errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return &updated, nil
}

// DeleteStudent removes the student through the coordinator so the
// supervisor's load follows
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	return s.coordinator.DeleteStudent(ctx, id)
}
