package dto

// UploadDocumentRequest carries the form fields sent with an upload
type UploadDocumentRequest struct {
	Stage string `form:"stage"`
	Name  string `form:"name" binding:"omitempty,max=255"`
}
