package dto

// AISettingsRequest updates the analysis capability pass-through settings.
type AISettingsRequest struct {
	Endpoint string `json:"endpoint" form:"endpoint" binding:"omitempty,url" example:"https://api.openai.com/v1"`
	Model    string `json:"model" form:"model" example:"gpt-4o-mini"`
	APIKey   string `json:"apiKey" form:"apiKey" example:"sk-..."`
}

// AISettingsDTO reports the stored settings with the key masked.
type AISettingsDTO struct {
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	APIKeySet bool   `json:"apiKeySet"`
}
