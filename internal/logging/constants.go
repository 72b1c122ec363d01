package logging

// Standardized field names for structured logging.
// Use these instead of ad-hoc keys so log output stays filterable.
const (
	FieldOperation  = "operation"
	FieldClassifier = "classifier"
	FieldLabel      = "label"
	FieldModel      = "model"
	FieldEndpoint   = "endpoint"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldTextLength = "text_length"
	FieldEntryID    = "entry_id"
	FieldAlias      = "alias"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldReason     = "reason"
)
