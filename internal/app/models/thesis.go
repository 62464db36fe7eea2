package models

// ThesisRecord is a defended thesis kept in the department's archive.
// It is reference material only and never linked to a live student.
type ThesisRecord struct {
	Base
	Title      string   `json:"title" example:"Community radio and local elections"`
	Summary    string   `json:"summary,omitempty"`
	Author     string   `json:"author" example:"Fatou Ndiaye"`
	Year       int      `json:"year" example:"2021"`
	Supervisor string   `json:"supervisor" example:"Jean Martin"`
	Domains    Domains  `json:"domains"`
	Grade      *float64 `json:"grade"`
	Mention    *string  `json:"mention"`
}
