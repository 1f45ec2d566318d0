package journal

import (
	"time"

	"gorm.io/datatypes"
)

type Entry struct {
	ID        string                      `gorm:"primaryKey;size:26" json:"id"`
	SessionID *string                     `gorm:"type:varchar(26);index" json:"session_id"`
	Title     string                      `gorm:"type:varchar(255);not null" json:"title"`
	Content   string                      `gorm:"type:text;not null" json:"content"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (Entry) TableName() string { return "journal_entries" }

// View is an entry with the fields derived from its content.
type View struct {
	Entry
	WordCount int    `json:"word_count"`
	Preview   string `json:"preview"`
}

func NewView(e Entry) View {
	return View{Entry: e, WordCount: WordCount(e.Content), Preview: Preview(e.Content)}
}

// Draft is the mutable part of an entry.
type Draft struct {
	SessionID *string  `json:"session_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
}
