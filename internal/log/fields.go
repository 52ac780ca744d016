package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status_code"
	FieldDuration  = "duration_ms"
	FieldError     = "error"

	FieldRecordID  = "record_id"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldSeverity  = "severity"
	FieldBackend   = "backend"
	FieldCount     = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentRecords = "records"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentNotify  = "notify"
	ComponentBackup  = "backup"
	ComponentWorker  = "worker"
)
