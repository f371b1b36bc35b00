package model

import (
	"time"
)

// EntryDateLayout is the canonical storage and wire form of entry_date,
// always in UTC.
const EntryDateLayout = "2006-01-02 15:04:05"

type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mood      string    `json:"mood"`
	Notes     *string   `json:"notes"`
	EntryDate string    `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
