package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldBillID      = "bill_id"
	FieldBillName    = "bill_name"
	FieldAmountCents = "amount_cents"
	FieldRemaining   = "remaining_cents"
	FieldFrequency   = "frequency"
	FieldDueDate     = "due_date"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentBill     = "bill"
	ComponentPaycheck = "paycheck"
	ComponentPayment  = "payment"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentExport   = "export"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpApply    = "apply"
	OpSchedule = "schedule"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
