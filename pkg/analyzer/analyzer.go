// Package analyzer sends household item photos to an OpenAI-compatible
// vision endpoint and returns structured item details.
package analyzer

import (
	"context"

	"github.com/pkg/errors"
)

// Errors that abort a whole analysis job. Anything else is an item-level
// failure and the job carries on.
var (
	ErrNotConfigured = errors.New("analyzer: endpoint or api key not configured")
	ErrAuth          = errors.New("analyzer: authentication rejected")
	ErrUnreachable   = errors.New("analyzer: endpoint unreachable")
)

// Result is what the model extracted from a single photo.
type Result struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Confidence  float64  `json:"confidence"`
}

// Analyzer turns one image into structured item details.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*Result, error)
}

// IsJobFatal reports whether err should fail the whole job rather than
// just the item it occurred on.
func IsJobFatal(err error) bool {
	return errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrUnreachable)
}
