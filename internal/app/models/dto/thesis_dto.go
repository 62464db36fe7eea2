package dto

// CreateThesisRequest archives a defended thesis
type CreateThesisRequest struct {
	Title      string   `json:"title" binding:"required"`
	Summary    string   `json:"summary"`
	Author     string   `json:"author" binding:"required"`
	Year       int      `json:"year" binding:"required,min=1900,max=2200"`
	Supervisor string   `json:"supervisor" binding:"required"`
	Domains    []string `json:"domains" binding:"omitempty,dive,domaintag"`
	Grade      *float64 `json:"grade" binding:"omitempty,min=0"`
	Mention    *string  `json:"mention"`
}

// UpdateThesisRequest carries the fields to change
type UpdateThesisRequest struct {
	Title      *string   `json:"title" binding:"omitempty,min=1"`
	Summary    *string   `json:"summary"`
	Author     *string   `json:"author" binding:"omitempty,min=1"`
	Year       *int      `json:"year" binding:"omitempty,min=1900,max=2200"`
	Supervisor *string   `json:"supervisor" binding:"omitempty,min=1"`
	Domains    *[]string `json:"domains" binding:"omitempty,dive,domaintag"`
	Grade      *float64  `json:"grade" binding:"omitempty,min=0"`
	Mention    *string   `json:"mention"`
}

// ThesisFilter narrows the thesis archive
type ThesisFilter struct {
	Year       int    `form:"year"`
	Supervisor string `form:"supervisor"`
	Domain     string `form:"domain"`
	Q          string `form:"q"`
}

// ThesisImportRow is one entry of a bulk import. Rows are checked one by one
// so a bad row is reported without rejecting the batch.
type ThesisImportRow struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary,omitempty"`
	Author     string   `json:"author"`
	Year       int      `json:"year"`
	Supervisor string   `json:"supervisor"`
	Domains    []string `json:"domains,omitempty"`
	Grade      *float64 `json:"grade,omitempty"`
	Mention    *string  `json:"mention,omitempty"`
}

// ImportThesesRequest is a non-empty batch of archive rows
type ImportThesesRequest struct {
	Theses []ThesisImportRow `json:"theses" binding:"required,min=1"`
}

// ThesisImportError explains why a row was skipped
type ThesisImportError struct {
	Index  int             `json:"index"`
	Row    ThesisImportRow `json:"row"`
	Reason string          `json:"reason"`
}

// ImportThesesResponse counts the archived rows and lists the skipped ones
type ImportThesesResponse struct {
	Created int                 `json:"created"`
	Errors  []ThesisImportError `json:"errors"`
}
