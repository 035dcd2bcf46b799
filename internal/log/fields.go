package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status_code"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldBackend   = "backend"
	FieldPerson    = "person"
	FieldMonth     = "month"
	FieldPosition  = "position"
	FieldRows      = "rows"
	FieldTotal     = "total"
	FieldFuelRate  = "fuel_rate"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
	ComponentNotify    = "notify"
	ComponentDirectory = "directory"
)

// Operations defines standard operation names.
const (
	OpList     = "list"
	OpAppend   = "append"
	OpDelete   = "delete"
	OpRateRead = "rate_read"
	OpRateSet  = "rate_set"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
