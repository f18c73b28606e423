package utils

// LogEntry is one reconstructed entry of the action log
type LogEntry struct {
	Time      string  `json:"time"`
	User      string  `json:"user"`
	Action    string  `json:"action"`
	Level     string  `json:"level"`
	ErrorCode string  `json:"error_code,omitempty"`
	Traceback *string `json:"traceback"`
	Summary   string  `json:"tb_summary,omitempty"`
	Source    string  `json:"source,omitempty"`
}

// Log levels understood by the dashboard
const (
	LevelInfo  = "info"
	LevelOK    = "ok"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Date layouts
const (
	StoredDateLayout = "02012006"
	APIDateLayout    = "2006-01-02"
)

// Code lengths
const (
	FlightCodeLength = 6
	RefCodeLength    = 7
)
