package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/thesismatch/internal/app/models/dto"
	"github.com/yigit/thesismatch/internal/app/services"
	"github.com/yigit/thesismatch/internal/middleware"
)

// DocumentController handles thesis document uploads
type DocumentController struct {
	documentService services.DocumentService
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, logger zerolog.Logger) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		logger:          logger,
	}
}

// UploadDocument stores a file for a student
// @Summary Upload a document
// @Description Uploads a pdf, doc, docx, txt, jpg or png file for a student. The stage defaults to the student's current stage.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param file formData file true "Document"
// @Param stage formData string false "Workflow stage code"
// @Param name formData string false "Display name"
// @Success 201 {object} dto.APIResponse{data=models.Document} "Document uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing, empty, too large or unsupported file"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student or stage not found"
// @Router /documents/{studentId} [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required")
		errorDetail = errorDetail.WithField("file").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UploadDocumentRequest
	if !middleware.BindForm(ctx, &req) {
		return
	}

	doc, err := c.documentService.Upload(ctx, p, ctx.Param("studentId"), &req, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(doc, "Document uploaded successfully"))
}

// GetStudentDocuments lists a student's documents, newest first
// @Summary List documents of a student
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Document} "Documents retrieved"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /documents/student/{studentId} [get]
func (c *DocumentController) GetStudentDocuments(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	docs, err := c.documentService.ListByStudent(ctx, p, ctx.Param("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(docs, "Documents retrieved successfully"))
}

// DownloadDocument sends a document's content
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {file} file "Document content"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id}/download [get]
func (c *DocumentController) DownloadDocument(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	doc, path, err := c.documentService.Open(ctx, p, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.FileAttachment(path, doc.Name)
}

// DeleteDocument removes a document and its file
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} dto.APIResponse "Document deleted"
// @Failure 403 {object} dto.ErrorResponse "Only the uploader or an administrator can delete"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	id := ctx.Param("id")
	if err := c.documentService.Delete(ctx, p, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("documentID", id).Str("userID", p.UserID).Msg("Document deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Document deleted successfully"))
}
