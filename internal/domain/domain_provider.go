// Package domain defines the domain models and repository interfaces.
package domain

import "time"

// Provider is a configured storage backend.
type Provider struct {
	ID             int64
	Name           string
	Kind           string
	URL            string
	User           string
	Password       string
	BasePath       string
	TimeoutSeconds int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
