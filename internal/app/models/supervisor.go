package models

import (
	"math"
	"strings"

	"github.com/yigit/thesismatch/internal/pkg/matching"
)

// DefaultMaxQuota applies when a supervisor is created without a quota
const DefaultMaxQuota = 10

// Supervisor is a thesis supervisor with a bounded number of students
type Supervisor struct {
	Base
	FirstName   string  `json:"firstName" example:"Jean"`
	LastName    string  `json:"lastName" example:"Martin"`
	Email       string  `json:"email" example:"jean.martin@univ.example"`
	Domains     Domains `json:"domains"`
	MaxQuota    int     `json:"maxQuota" example:"10"`
	CurrentLoad int     `json:"currentLoad" example:"3"` // maintained by the assignment coordinator only
	Available   bool    `json:"available" example:"true"`
	Biography   string  `json:"biography,omitempty"`
	UserID      *string `json:"userId,omitempty"` // linked SUPERVISOR account
}

// FullName returns "First Last"
func (s Supervisor) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// FillRate is the load as a whole percentage of the quota
func (s Supervisor) FillRate() int {
	if s.MaxQuota <= 0 {
		return 0
	}
	return int(math.Round(float64(s.CurrentLoad) * 100 / float64(s.MaxQuota)))
}

// RemainingSlots is the number of students the supervisor can still take
func (s Supervisor) RemainingSlots() int {
	if r := s.MaxQuota - s.CurrentLoad; r > 0 {
		return r
	}
	return 0
}

// HasCapacity reports whether one more student fits under the quota
func (s Supervisor) HasCapacity() bool {
	return s.CurrentLoad < s.MaxQuota
}

// Candidate returns the scorer's view of the supervisor
func (s Supervisor) Candidate() matching.Candidate {
	return matching.Candidate{
		ID:          s.ID,
		Domains:     s.Domains.Strings(),
		MaxQuota:    s.MaxQuota,
		CurrentLoad: s.CurrentLoad,
		Available:   s.Available,
	}
}
