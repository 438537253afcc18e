package code

// Success codes.
var (
	Success       = NewSuss(200, "Success")
	SuccessCreate = NewSuss(201, "Created")
	SuccessUpdate = NewSuss(202, "Updated")
	SuccessDelete = NewSuss(203, "Deleted")
)

// Generic error codes.
var (
	ServerError          = NewError(10000, "Internal server error")
	ErrorInvalidParams   = NewError(10001, "Invalid request parameters")
	ErrorNotFound        = NewError(10002, "Resource not found")
	ErrorTooManyRequests = NewError(10003, "Too many requests")
	ErrorDBQuery         = NewError(10004, "Database query error")
)

// Storage provider error codes.
var (
	ErrorProviderNotFound    = NewError(20001, "Storage provider not found")
	ErrorProviderExists      = NewError(20002, "Storage provider name already registered")
	ErrorProviderUnreachable = NewError(20003, "Storage provider unreachable")
	ErrorProviderKindInvalid = NewError(20004, "Unknown storage provider kind")
	ErrorProviderProtected   = NewError(20005, "The local provider cannot be removed")
	ErrorProviderInUse       = NewError(20006, "Storage provider is referenced by enabled schedules")
)

// Backup schedule and run error codes.
var (
	ErrorScheduleNotFound     = NewError(21001, "Backup schedule not found")
	ErrorScheduleCronInvalid  = NewError(21002, "Invalid cron expression")
	ErrorBackupAlreadyRunning = NewError(21003, "A backup for this schedule is already running")
	ErrorBackupSnapshot       = NewError(21004, "Snapshot of household data failed")
	ErrorBackupTransform      = NewError(21005, "Backup payload transform failed")
	ErrorBackupUpload         = NewError(21006, "Backup upload failed")
	ErrorBackupNotFound       = NewError(21007, "Backup artifact not found")
	ErrorRestoreFailed        = NewError(21008, "Restore failed, previous data left untouched")
)

// AI job error codes.
var (
	ErrorJobNotFound      = NewError(22001, "Analysis job not found")
	ErrorJobNoItems       = NewError(22002, "Analysis job has no items")
	ErrorJobTypeInvalid   = NewError(22003, "Unknown analysis job type")
	ErrorJobQueueFull     = NewError(22004, "Analysis queue is full, try again later")
	ErrorAINotConfigured  = NewError(22005, "AI provider credentials are not configured")
)
