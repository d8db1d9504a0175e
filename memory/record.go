package memory

import "time"

// Status is the lifecycle state a step record describes.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Reserved step ids marking the session boundary.
const (
	StepSessionStart = "session_start"
	StepSessionEnd   = "session_end"
)

// Reserved actions for the boundary markers.
const (
	ActionInput  = "input"
	ActionOutput = "output"
)

// StepRecord is one durable, append-only audit entry describing a state
// transition within a session. Records are never edited or deleted.
type StepRecord struct {
	SessionID string         `json:"session_id"`
	StepID    string         `json:"step_id"`
	Action    string         `json:"action"`
	Status    Status         `json:"status"`
	Result    any            `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// auditLog is the persistence layout of a StepRecord: a flat row with
// result and metadata serialized as opaque JSON text and the timestamp in
// ISO-8601. Never schema-validated by the store.
type auditLog struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"column:session_id;index"`
	StepID    string `gorm:"column:step_id"`
	Action    string `gorm:"column:action"`
	Status    string `gorm:"column:status"`
	Result    string `gorm:"column:result"`
	Error     string `gorm:"column:error"`
	Timestamp string `gorm:"column:timestamp"`
	Metadata  string `gorm:"column:metadata"`
}

// TableName keeps the table name stable across GORM naming strategies.
func (auditLog) TableName() string {
	return "audit_logs"
}
