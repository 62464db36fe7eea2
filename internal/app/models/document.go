package models

// Document is a file uploaded for a student
type Document struct {
	Base
	StudentID  string `json:"studentId"`
	Name       string `json:"name" example:"plan-v2.pdf"` // original client file name
	FileName   string `json:"fileName"`                   // name on disk
	Path       string `json:"path"`                       // relative to the storage root
	URL        string `json:"url,omitempty"`
	MimeType   string `json:"mimeType" example:"application/pdf"`
	Size       int64  `json:"size" example:"524288"`
	Stage      string `json:"stage" example:"DEPOT_PLAN"`
	UploadedBy string `json:"uploadedBy"`
}
