package services

import (
	"context"
	"fmt"

	"github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/matching"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

// MatchingService ranks supervisors for a student
type MatchingService interface {
	// Suggest returns the eligible supervisors best suited to the student,
	// best first. limit <= 0 returns all of them.
	Suggest(ctx context.Context, p auth.Principal, studentID string, limit int) (*dto.MatchingResponse, error)
}

type matchingServiceImpl struct {
	supervisors recordstore.Store[models.Supervisor]
	authz       *auth.AuthorizationService
}

// NewMatchingService creates a new MatchingService
func NewMatchingService(repos *repositories.Repositories, authz *auth.AuthorizationService) MatchingService {
	return &matchingServiceImpl{
		supervisors: repos.Supervisors,
		authz:       authz,
	}
}

func (s *matchingServiceImpl) Suggest(ctx context.Context, p auth.Principal, studentID string, limit int) (*dto.MatchingResponse, error) {
	student, err := s.authz.CanViewStudentID(ctx, p, studentID)
	if err != nil {
		return nil, err
	}

	supervisors, err := s.supervisors.FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error retrieving supervisors: %w", err)
	}
	byID := make(map[string]models.Supervisor, len(supervisors))
	candidates := make([]matching.Candidate, 0, len(supervisors))
	for _, sup := range supervisors {
		byID[sup.ID] = sup
		candidates = append(candidates, sup.Candidate())
	}

	ranked := matching.Rank(student.Domains.Strings(), candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	resp := &dto.MatchingResponse{
		Student:     dto.NewStudentSummary(student),
		Domains:     student.Domains,
		Suggestions: make([]dto.SuggestionResponse, 0, len(ranked)),
	}
	for _, r := range ranked {
		sup := byID[r.Candidate.ID]
		resp.Suggestions = append(resp.Suggestions, dto.SuggestionResponse{
			Supervisor: dto.NewSupervisorSummary(sup),
			MaxQuota:   sup.MaxQuota,
			Load:       sup.CurrentLoad,
			Result:     r.Result,
		})
	}
	return resp, nil
}
