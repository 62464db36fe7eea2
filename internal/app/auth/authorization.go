package auth

import (
	"context"
	"errors"

	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/logger"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

// Authorization errors returned to STUDENT and SUPERVISOR callers
var (
	ErrNotOwnProfile   = apperrors.NewForbiddenError("you can only access your own profile")
	ErrNotSupervising  = apperrors.NewForbiddenError("you do not supervise this student")
	ErrProjectFields   = apperrors.NewForbiddenError("students can only edit their project fields")
	ErrQuotaAdminOnly  = apperrors.NewForbiddenError("only an administrator can change a quota")
	ErrNotUploader     = apperrors.NewForbiddenError("only the uploader or an administrator can delete this document")
	ErrUnknownIdentity = apperrors.NewForbiddenError("the account is not linked to a profile")
)

// Principal is the authenticated caller, built from the access token claims
type Principal struct {
	UserID       string
	Email        string
	Role         models.Role
	StudentID    string // set for STUDENT accounts linked to a profile
	SupervisorID string // set for SUPERVISOR accounts linked to a profile
}

// IsAdmin reports whether the caller has the ADMIN role
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// AuthorizationService scopes student and supervisor data to the caller
type AuthorizationService struct {
	students recordstore.Store[models.Student]
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(students recordstore.Store[models.Student]) *AuthorizationService {
	return &AuthorizationService{students: students}
}

// StudentScope returns the predicate restricting a student list to what p
// may see. Admins see everything.
func (s *AuthorizationService) StudentScope(p Principal) (recordstore.Predicate[models.Student], error) {
	switch p.Role {
	case models.RoleAdmin:
		return nil, nil
	case models.RoleSupervisor:
		if p.SupervisorID == "" {
			return nil, ErrUnknownIdentity
		}
		return func(st models.Student) bool { return st.AssignedTo(p.SupervisorID) }, nil
	case models.RoleStudent:
		if p.StudentID == "" {
			return nil, ErrUnknownIdentity
		}
		return func(st models.Student) bool { return st.ID == p.StudentID }, nil
	}
	return nil, apperrors.ErrPermissionDenied
}

// CanViewStudent checks read access to a student: admins, the student
// itself and its assigned supervisor
func (s *AuthorizationService) CanViewStudent(p Principal, student models.Student) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		if p.StudentID != "" && p.StudentID == student.ID {
			return nil
		}
		return ErrNotOwnProfile
	case models.RoleSupervisor:
		if p.SupervisorID != "" && student.AssignedTo(p.SupervisorID) {
			return nil
		}
		return ErrNotSupervising
	}
	return apperrors.ErrPermissionDenied
}

// CanViewStudentID loads the student and checks read access to it
func (s *AuthorizationService) CanViewStudentID(ctx context.Context, p Principal, studentID string) (models.Student, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return student, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error loading student for authorization")
		return student, err
	}
	return student, s.CanViewStudent(p, student)
}

// CanEditStudent checks write access: admins edit everything, a student
// edits the project fields of its own profile
func (s *AuthorizationService) CanEditStudent(p Principal, studentID string, req *dto.UpdateStudentRequest) error {
	switch p.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		if p.StudentID == "" || p.StudentID != studentID {
			return ErrNotOwnProfile
		}
		if !req.ProjectFieldsOnly() {
			return ErrProjectFields
		}
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// CanEditSupervisor checks write access to a supervisor profile. Only
// admins may change the quota.
func (s *AuthorizationService) CanEditSupervisor(p Principal, supervisorID string, req *dto.UpdateSupervisorRequest) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role != models.RoleSupervisor || p.SupervisorID == "" || p.SupervisorID != supervisorID {
		return ErrNotOwnProfile
	}
	if req.MaxQuota != nil {
		return ErrQuotaAdminOnly
	}
	return nil
}

// CanAdvanceStage checks that p may move the student through the workflow
func (s *AuthorizationService) CanAdvanceStage(p Principal, student models.Student) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role == models.RoleSupervisor && p.SupervisorID != "" && student.AssignedTo(p.SupervisorID) {
		return nil
	}
	return ErrNotSupervising
}

// CanDeleteDocument allows admins and the account that uploaded the document
func (s *AuthorizationService) CanDeleteDocument(p Principal, doc models.Document) error {
	if p.IsAdmin() || (p.UserID != "" && doc.UploadedBy == p.UserID) {
		return nil
	}
	return ErrNotUploader
}
