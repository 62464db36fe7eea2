package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/auth"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/repositories"
	"github.com/yigit/thesismatch/internal/pkg/apperrors"
	"github.com/yigit/thesismatch/internal/pkg/filestorage"
	"github.com/yigit/thesismatch/internal/pkg/recordstore"
)

// allowedDocumentTypes maps accepted MIME types to their usual extensions
var allowedDocumentTypes = map[string][]string{
	"application/pdf":    {".pdf"},
	"application/msword": {".doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},
	"text/plain": {".txt"},
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
}

// DocumentService stores the files students hand in along the workflow
type DocumentService interface {
	Upload(ctx context.Context, p auth.Principal, studentID string, req *dto.UploadDocumentRequest, file *multipart.FileHeader) (*models.Document, error)
	ListByStudent(ctx context.Context, p auth.Principal, studentID string) ([]models.Document, error)
	// Open returns the document and the filesystem path of its content
	Open(ctx context.Context, p auth.Principal, id string) (*models.Document, string, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
}

type documentServiceImpl struct {
	documents recordstore.Store[models.Document]
	stages    recordstore.Store[models.WorkflowStage]
	files     filestorage.FileStorage
	authz     *auth.AuthorizationService
	maxSize   int64
	logger    zerolog.Logger
}

// NewDocumentService creates a new DocumentService. maxSize is in bytes.
func NewDocumentService(
	repos *repositories.Repositories,
	files filestorage.FileStorage,
	authz *auth.AuthorizationService,
	maxSize int64,
	logger zerolog.Logger,
) DocumentService {
	return &documentServiceImpl{
		documents: repos.Documents,
		stages:    repos.Stages,
		files:     files,
		authz:     authz,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// detectMimeType trusts the declared content type when it is allowed and
// falls back to the file extension otherwise
func detectMimeType(file *multipart.FileHeader) (string, bool) {
	declared, _, _ := mime.ParseMediaType(file.Header.Get("Content-Type"))
	if _, ok := allowedDocumentTypes[declared]; ok {
		return declared, true
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	for mimeType, exts := range allowedDocumentTypes {
		for _, e := range exts {
			if e == ext {
				return mimeType, true
			}
		}
	}
	return declared, false
}

func (s *documentServiceImpl) validateFile(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.NewBadRequestError("a file is required")
	}
	if file.Size <= 0 {
		return "", apperrors.NewBadRequestError("the file is empty")
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", apperrors.NewCustomError(apperrors.ErrValidationFailed,
			fmt.Sprintf("the file exceeds the %d MB limit", s.maxSize/(1024*1024))).
			WithDetails(map[string]interface{}{"size": file.Size, "maxSize": s.maxSize})
	}
	mimeType, ok := detectMimeType(file)
	if !ok {
		return "", apperrors.NewBadRequestError("unsupported file type, allowed: pdf, doc, docx, txt, jpg, png")
	}
	return mimeType, nil
}

// Upload stores a file for the student at the given stage, or at the
// student's current stage when none is given
func (s *documentServiceImpl) Upload(ctx context.Context, p auth.Principal, studentID string, req *dto.UploadDocumentRequest, file *multipart.FileHeader) (*models.Document, error) {
	student, err := s.authz.CanViewStudentID(ctx, p, studentID)
	if err != nil {
		return nil, err
	}
	mimeType, err := s.validateFile(file)
	if err != nil {
		return nil, err
	}

	stage := student.Stage
	if req != nil && strings.TrimSpace(req.Stage) != "" {
		code := normalizeStageCode(req.Stage)
		if _, err := s.stages.FindOne(ctx, func(st models.WorkflowStage) bool { return st.Code == code }); err != nil {
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown workflow stage %s", code))
			}
			return nil, fmt.Errorf("error retrieving stage: %w", err)
		}
		stage = code
	}

	name := filepath.Base(file.Filename)
	if req != nil && strings.TrimSpace(req.Name) != "" {
		name = strings.TrimSpace(req.Name)
	}

	stored, err := s.files.Save(file, "students/"+studentID)
	if err != nil {
		return nil, fmt.Errorf("error storing file: %w", err)
	}

	doc, err := s.documents.Create(ctx, models.Document{
		StudentID:  studentID,
		Name:       name,
		FileName:   stored.FileName,
		Path:       stored.Path,
		URL:        stored.URL,
		MimeType:   mimeType,
		Size:       stored.Size,
		Stage:      stage,
		UploadedBy: p.UserID,
	})
	if err != nil {
		if delErr := s.files.Delete(stored.Path); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", stored.Path).Msg("Failed to remove orphan upload")
		}
		return nil, fmt.Errorf("error saving document: %w", err)
	}

	s.logger.Info().Str("documentID", doc.ID).Str("studentID", studentID).Str("stage", stage).Int64("size", doc.Size).Msg("Document uploaded")
	return &doc, nil
}

// ListByStudent returns the student's documents, newest first
func (s *documentServiceImpl) ListByStudent(ctx context.Context, p auth.Principal, studentID string) ([]models.Document, error) {
	if _, err := s.authz.CanViewStudentID(ctx, p, studentID); err != nil {
		return nil, err
	}
	docs, err := s.documents.FindAll(ctx, func(d models.Document) bool { return d.StudentID == studentID })
	if err != nil {
		return nil, fmt.Errorf("error retrieving documents: %w", err)
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (s *documentServiceImpl) find(ctx context.Context, id string) (models.Document, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return doc, apperrors.ErrDocumentNotFound
		}
		return doc, fmt.Errorf("error retrieving document: %w", err)
	}
	return doc, nil
}

func (s *documentServiceImpl) Open(ctx context.Context, p auth.Principal, id string) (*models.Document, string, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if _, err := s.authz.CanViewStudentID(ctx, p, doc.StudentID); err != nil {
		return nil, "", err
	}
	path, err := s.files.FullPath(doc.Path)
	if err != nil {
		return nil, "", fmt.Errorf("error resolving document path: %w", err)
	}
	return &doc, path, nil
}

// Delete removes the record, then the file
func (s *documentServiceImpl) Delete(ctx context.Context, p auth.Principal, id string) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.CanDeleteDocument(p, doc); err != nil {
		return err
	}

	deleted, err := s.documents.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if !deleted {
		return apperrors.ErrDocumentNotFound
	}
	if err := s.files.Delete(doc.Path); err != nil {
		s.logger.Error().Err(err).Str("documentID", id).Str("path", doc.Path).Msg("Failed to delete document file")
	}
	return nil
}
