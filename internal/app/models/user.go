package models

import "strings"

// User is an account that can sign in. PasswordHash is persisted with the
// record and never leaves the service layer.
type User struct {
	Base
	Email        string  `json:"email" example:"admin@univ.example"`
	PasswordHash string  `json:"passwordHash"`
	Role         Role    `json:"role" example:"ADMIN"`
	FirstName    string  `json:"firstName" example:"Admin"`
	LastName     string  `json:"lastName" example:"Principal"`
	StudentID    *string `json:"studentId,omitempty"`
	SupervisorID *string `json:"supervisorId,omitempty"`
}

// FullName returns "First Last"
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lower-cases and trims an address for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
