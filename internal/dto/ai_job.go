package dto

import "github.com/hometracker/home-backup-service/pkg/timex"

// AIJobCreateRequest submits a batch of images for analysis.
type AIJobCreateRequest struct {
	Type  string   `json:"type" form:"type" binding:"required,oneof=inventory_detection warranty_detection" example:"inventory_detection"`
	Items []string `json:"items" form:"items" binding:"required,min=1,dive,required" example:"uploads/items/fridge.jpg"`
}

// AIJobIDRequest addresses a job by id.
type AIJobIDRequest struct {
	ID string `json:"id" form:"id" uri:"id" binding:"required" example:"7b0ee1a4-33f1-4f64-9f2e-0a6f4be7a001"`
}

// AIJobCreatedDTO acknowledges a submitted job.
type AIJobCreatedDTO struct {
	JobID string `json:"jobId"`
}

// AIJobDTO is the poll snapshot of one job.
type AIJobDTO struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	TotalItems     int        `json:"totalItems"`
	ProcessedItems int        `json:"processedItems"`
	CreatedItems   int        `json:"createdItems"`
	ErrorMessage   *string    `json:"errorMessage"`
	StartedAt      timex.Time `json:"startedAt"`
	FinishedAt     timex.Time `json:"finishedAt"`
	CreatedAt      timex.Time `json:"createdAt"`
}

// AIJobItemDTO is one item of a job.
type AIJobItemDTO struct {
	Position int    `json:"position"`
	ImageRef string `json:"imageRef"`
	Status   string `json:"status"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}
