package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
	"github.com/yigit/thesismatch/internal/pkg/validation"
)

const missingThesisFields = "missing required fields (title, author, year, supervisor)"

// ThesisService manages the archive of defended theses
type ThesisService interface {
	ListTheses(ctx context.Context, filter dto.ThesisFilter) ([]models.ThesisRecord, error)
	GetThesis(ctx context.Context, id string) (*models.ThesisRecord, error)
	CreateThesis(ctx context.Context, req *dto.CreateThesisRequest) (*models.ThesisRecord, error)
	UpdateThesis(ctx context.Context, id string, req *dto.UpdateThesisRequest) (*models.ThesisRecord, error)
	DeleteThesis(ctx context.Context, id string) error
	ImportTheses(ctx context.Context, rows []dto.ThesisImportRow) (*dto.ImportThesesResponse, error)
}

type thesisServiceImpl struct {
	theses recordstore.Store[models.ThesisRecord]
	logger zerolog.Logger
}

// NewThesisService creates a new ThesisService
func NewThesisService(repos *repositories.Repositories, logger zerolog.Logger) ThesisService {
	return &thesisServiceImpl{
		theses: repos.Theses,
		logger: logger,
	}
}

// ListTheses returns the matching theses, most recent year first
func (s *thesisServiceImpl) ListTheses(ctx context.Context, filter dto.ThesisFilter) ([]models.ThesisRecord, error) {
	supervisor := strings.ToLower(strings.TrimSpace(filter.Supervisor))
	domain := strings.ToLower(strings.TrimSpace(filter.Domain))
	q := strings.ToLower(strings.TrimSpace(filter.Q))

	theses, err := s.theses.FindAll(ctx, func(t models.ThesisRecord) bool {
		if filter.Year != 0 && t.Year != filter.Year {
			return false
		}
		if supervisor != "" && !strings.Contains(strings.ToLower(t.Supervisor), supervisor) {
			return false
		}
		if domain != "" && !anyDomainContains(t.Domains, domain) {
			return false
		}
		return q == "" || containsFold(q, t.Title, t.Summary, t.Author)
	})
	if err != nil {
		return nil, fmt.Errorf("error retrieving theses: %w", err)
	}

	sort.SliceStable(theses, func(i, j int) bool {
		if theses[i].Year != theses[j].Year {
			return theses[i].Year > theses[j].Year
		}
		return strings.ToLower(theses[i].Title) < strings.ToLower(theses[j].Title)
	})
	return theses, nil
}

// anyDomainContains matches on part of a tag, ignoring case
func anyDomainContains(domains models.Domains, needle string) bool {
	for _, tag := range domains {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// GetThesis returns one archive entry
func (s *thesisServiceImpl) GetThesis(ctx context.Context, id string) (*models.ThesisRecord, error) {
	thesis, err := s.theses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrThesisNotFound
		}
		return nil, fmt.Errorf("error retrieving thesis: %w", err)
	}
	return &thesis, nil
}

// CreateThesis archives one thesis
func (s *thesisServiceImpl) CreateThesis(ctx context.Context, req *dto.CreateThesisRequest) (*models.ThesisRecord, error) {
	thesis := models.ThesisRecord{
		Title:      strings.TrimSpace(req.Title),
		Summary:    req.Summary,
		Author:     strings.TrimSpace(req.Author),
		Year:       req.Year,
		Supervisor: strings.TrimSpace(req.Supervisor),
		Domains:    models.NewDomains(req.Domains...),
		Grade:      req.Grade,
		Mention:    req.Mention,
	}
	if !thesisComplete(thesis) {
		return nil, apperrors.NewBadRequestError(missingThesisFields)
	}

	created, err := s.theses.Create(ctx, thesis)
	if err != nil {
		return nil, fmt.Errorf("error creating thesis: %w", err)
	}
	s.logger.Info().Str("thesisID", created.ID).Int("year", created.Year).Msg("Thesis archived")
	return &created, nil
}

func thesisComplete(t models.ThesisRecord) bool {
	return t.Title != "" && t.Author != "" && t.Year > 0 && t.Supervisor != ""
}

// UpdateThesis applies the given fields
func (s *thesisServiceImpl) UpdateThesis(ctx context.Context, id string, req *dto.UpdateThesisRequest) (*models.ThesisRecord, error) {
	updated, err := s.theses.Update(ctx, id, func(t *models.ThesisRecord) error {
		if req.Title != nil {
			t.Title = strings.TrimSpace(*req.Title)
		}
		if req.Summary != nil {
			t.Summary = *req.Summary
		}
		if req.Author != nil {
			t.Author = strings.TrimSpace(*req.Author)
		}
		if req.Year != nil {
			t.Year = *req.Year
		}
		if req.Supervisor != nil {
			t.Supervisor = strings.TrimSpace(*req.Supervisor)
		}
		if req.Domains != nil {
			t.Domains = models.NewDomains(*req.Domains...)
		}
		if req.Grade != nil {
			t.Grade = req.Grade
		}
		if req.Mention != nil {
			t.Mention = req.Mention
		}
		if !thesisComplete(*t) {
			return apperrors.NewBadRequestError(missingThesisFields)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrThesisNotFound
		}
		if errors.Is(err, apperrors.ErrValidationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating thesis: %w", err)
	}
	return &updated, nil
}

// DeleteThesis removes an archive entry
func (s *thesisServiceImpl) DeleteThesis(ctx context.Context, id string) error {
	deleted, err := s.theses.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting thesis: %w", err)
	}
	if !deleted {
		return apperrors.ErrThesisNotFound
	}
	s.logger.Info().Str("thesisID", id).Msg("Thesis deleted")
	return nil
}

// ImportTheses archives every complete row and reports the others with
// their position in the batch. A store failure stops the import; rows
// created before it stay archived and are counted in the error.
func (s *thesisServiceImpl) ImportTheses(ctx context.Context, rows []dto.ThesisImportRow) (*dto.ImportThesesResponse, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewBadRequestError("a non-empty list of theses is required")
	}

	result := &dto.ImportThesesResponse{Errors: []dto.ThesisImportError{}}
	for i, row := range rows {
		thesis := models.ThesisRecord{
			Title:      strings.TrimSpace(row.Title),
			Summary:    row.Summary,
			Author:     strings.TrimSpace(row.Author),
			Year:       row.Year,
			Supervisor: strings.TrimSpace(row.Supervisor),
			Domains:    models.NewDomains(row.Domains...),
			Grade:      row.Grade,
			Mention:    row.Mention,
		}
		if reason := importRowProblem(thesis, row); reason != "" {
			result.Errors = append(result.Errors, dto.ThesisImportError{Index: i, Row: row, Reason: reason})
			continue
		}
		if _, err := s.theses.Create(ctx, thesis); err != nil {
			return nil, fmt.Errorf("error importing thesis %d after %d created: %w", i, result.Created, err)
		}
		result.Created++
	}

	s.logger.Info().Int("created", result.Created).Int("skipped", len(result.Errors)).Msg("Theses imported")
	return result, nil
}

func importRowProblem(t models.ThesisRecord, row dto.ThesisImportRow) string {
	if !thesisComplete(t) {
		return missingThesisFields
	}
	for _, tag := range row.Domains {
		if strings.TrimSpace(tag) != "" && !validation.DomainTag(tag) {
			return fmt.Sprintf("invalid domain tag %q", tag)
		}
	}
	if row.Grade != nil && *row.Grade < 0 {
		return "grade must not be negative"
	}
	return ""
}
