package chat

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job turns a finished chat into a journal entry in the background.
type Job struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"` // ULID length
	SessionID string    `gorm:"size:26;index;not null" json:"session_id"`
	Status    JobStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	// Filled when succeeded
	EntryID *string `gorm:"size:26" json:"entry_id,omitempty"`

	// Filled when failed
	Error *string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Job) TableName() string { return "summary_jobs" }
