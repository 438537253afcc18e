package domain

import "time"

// Job statuses are monotonic: queued -> processing -> completed | failed.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Item statuses: pending -> ok | error.
const (
	ItemStatusPending = "pending"
	ItemStatusOK      = "ok"
	ItemStatusError   = "error"
)

// Job types accepted by the analysis queue.
const (
	JobTypeInventoryDetection = "inventory_detection"
	JobTypeWarrantyDetection  = "warranty_detection"
)

// AIJob is one submitted batch of analysis items.
type AIJob struct {
	ID             string
	Type           string
	Status         string
	TotalItems     int
	ProcessedItems int
	CreatedItems   int
	ErrorMessage   string
	StartedAt      time.Time
	FinishedAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AIJobItem is one image inside a job.
type AIJobItem struct {
	ID        int64
	JobID     string
	Position  int
	ImageRef  string
	Status    string
	Result    string
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
