package domain

import "time"

// Setting keys for the analysis capability pass-through configuration.
const (
	SettingAIEndpoint = "ai_endpoint"
	SettingAIModel    = "ai_model"
	SettingAIAPIKey   = "ai_api_key"
)

// Setting is one key/value configuration row.
type Setting struct {
	ID        int64
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
