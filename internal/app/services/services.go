// Package services holds the business logic. Every write to a student's
// supervisor reference or a supervisor's load goes through AssignmentCoordinator.
package services

import (
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/auth"
	"github.com/yigit/thesismatch/internal/pkg/filestorage"
	"github.com/yigit/thesismatch/internal/pkg/locker"
	"github.com/yigit/thesismatch/internal/pkg/websocket"
)

// Options configures NewServices
type Options struct {
	Locker        locker.Locker
	LockWait      time.Duration
	MaxUploadSize int64
	// Events receives assignment changes; nil disables publishing
	Events websocket.Publisher
}

// Services groups the services handed to the controllers
type Services struct {
	Coordinator AssignmentCoordinator
	Matching    MatchingService
	Students    StudentService
	Supervisors SupervisorService
	Workflow    WorkflowService
	Documents   DocumentService
	Stats       StatsService
	Auth        AuthService
	Theses      ThesisService
}

// NewServices wires every service over the same repositories
func NewServices(
	repos *repositories.Repositories,
	files filestorage.FileStorage,
	authz *appauth.AuthorizationService,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	opts Options,
	logger zerolog.Logger,
) *Services {
	coordinator := NewAssignmentCoordinator(repos, files, opts.Locker, opts.LockWait, opts.Events, logger)
	return &Services{
		Coordinator: coordinator,
		Matching:    NewMatchingService(repos, authz),
		Students:    NewStudentService(repos, coordinator, authz, logger.With().Str("component", "students").Logger()),
		Supervisors: NewSupervisorService(repos, coordinator, authz, logger.With().Str("component", "supervisors").Logger()),
		Workflow:    NewWorkflowService(repos, authz, logger.With().Str("component", "workflow").Logger()),
		Documents:   NewDocumentService(repos, files, authz, opts.MaxUploadSize, logger.With().Str("component", "documents").Logger()),
		Stats:       NewStatsService(repos),
		Auth:        NewAuthService(repos, jwtService, hasher, logger.With().Str("component", "auth").Logger()),
		Theses:      NewThesisService(repos, logger.With().Str("component", "theses").Logger()),
	}
}
