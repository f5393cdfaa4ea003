package domain

// Wire-level JSON shapes returned by the control endpoint. The field names
// are part of the contract consumed by AI agents; do not rename.

// WireLogEntry is the serialized form of a LogEntry in HTTP responses
type WireLogEntry struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ToWire converts a LogEntry to its response representation
func (e LogEntry) ToWire() WireLogEntry {
	msg := e.Message
	if e.StackTrace != "" {
		msg += "\n" + e.StackTrace
	}
	return WireLogEntry{
		Type:    string(e.Severity),
		Message: msg,
	}
}

// RefreshResponse is the body of POST /refresh
type RefreshResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	HasErrors  bool           `json:"hasErrors"`
	ErrorCount int            `json:"errorCount,omitempty"`
	Errors     []WireLogEntry `json:"errors,omitempty"`
}

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Running       bool  `json:"running"`
	Port          int   `json:"port"`
	BufferedLogs  int   `json:"bufferedLogs"`
	Errors        int   `json:"errors"`
	Pending       bool  `json:"pending"`
	UptimeSeconds int64 `json:"uptimeSeconds"`
}

// LogsResponse is the body of GET /logs and GET /errors
type LogsResponse struct {
	Logs  []WireLogEntry `json:"logs"`
	Count int            `json:"count"`
}

// MessageResponse is the generic success/failure body (POST /clear, 404, 500)
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
