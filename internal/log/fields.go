package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldOwner       = "owner"
	FieldWindowMode  = "window_mode"
	FieldWindowStart = "window_start"
	FieldWindowEnd   = "window_end"
	FieldEntryID     = "entry_id"
	FieldEntryKind   = "entry_kind"
	FieldAccountID   = "account_id"
	FieldCategoryID  = "category_id"
	FieldPlanPeriod  = "plan_period"
	FieldAmountCents = "amount_cents"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
	ComponentExport  = "export"
	ComponentCLI     = "cli"
)
