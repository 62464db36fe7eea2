package models

import "time"

// Role defines the user role type
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleStudent    Role = "STUDENT"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleStudent:
		return true
	}
	return false
}

// Base carries the fields every stored record shares. The record store owns them.
type Base struct {
	ID        string    `json:"id" example:"4f0c1f9e-6a57-4a8e-9d43-0c1b7b3f2a10"` // Unique identifier
	CreatedAt time.Time `json:"createdAt" example:"2025-01-15T10:00:00Z"`          // Creation timestamp
	UpdatedAt time.Time `json:"updatedAt" example:"2025-01-16T08:30:00Z"`          // Last update timestamp
}

func (b *Base) GetID() string           { return b.ID }
func (b *Base) SetID(id string)         { b.ID = id }
func (b *Base) GetCreatedAt() time.Time { return b.CreatedAt }

func (b *Base) SetTimestamps(createdAt, updatedAt time.Time) {
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
}
