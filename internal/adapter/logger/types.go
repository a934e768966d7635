// internal/adapter/logger/types.go
package logger

// Field names of a log entry.
const (
	FieldTimestamp = "timestamp"
	FieldService   = "service"
	FieldHostname  = "hostname"
	FieldRequestID = "request_id"
	FieldAction    = "action"
	FieldMessage   = "message"
	FieldDetails   = "details"
)
