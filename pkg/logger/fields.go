package logger

// Unified log field name constants. Keeping names consistent across the
// project makes log queries predictable.
const (
	// FieldTraceID request trace ID
	FieldTraceID = "traceId"

	// FieldProvider storage provider name
	FieldProvider = "provider"

	// FieldSchedule backup schedule name
	FieldSchedule = "schedule"

	// FieldScheduleID backup schedule ID
	FieldScheduleID = "scheduleId"

	// FieldJobID analysis job ID
	FieldJobID = "jobId"

	// FieldFile backup artifact filename
	FieldFile = "file"

	// FieldSize payload size in bytes
	FieldSize = "size"

	// FieldDuration elapsed time
	FieldDuration = "duration"

	// FieldMethod method or handler name
	FieldMethod = "method"

	// FieldError error message
	FieldError = "error"
)
