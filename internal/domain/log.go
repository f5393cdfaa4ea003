package domain

import "time"

// Severity classifies a log entry emitted by the host editor
type Severity string

const (
	SeverityInfo      Severity = "Info"
	SeverityWarning   Severity = "Warning"
	SeverityError     Severity = "Error"
	SeverityException Severity = "Exception"
)

// ParseSeverity maps a string to a Severity, defaulting to Info
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityWarning:
		return SeverityWarning
	case SeverityError:
		return SeverityError
	case SeverityException:
		return SeverityException
	default:
		return SeverityInfo
	}
}

// IsError reports whether the severity counts toward refresh error capture
func (s Severity) IsError() bool {
	return s == SeverityError || s == SeverityException
}

// LogEntry is an immutable log event received from the host editor
type LogEntry struct {
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	StackTrace string    `json:"stackTrace,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLogEntry creates a LogEntry stamped with the current time
func NewLogEntry(severity Severity, message, stackTrace string) LogEntry {
	return LogEntry{
		Severity:   severity,
		Message:    message,
		StackTrace: stackTrace,
		Timestamp:  time.Now(),
	}
}
