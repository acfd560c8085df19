package domain

import "time"

// Syncable carries the identity and timestamps shared by stored aggregates.
type Syncable struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (s *Syncable) InitTimestamps(now time.Time) {
	s.CreatedAt = now
	s.UpdatedAt = now
}

// Touch records a modification at now.
func (s *Syncable) Touch(now time.Time) {
	s.UpdatedAt = now
}
