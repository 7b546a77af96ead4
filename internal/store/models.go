// Package store provides SQLite-backed persistence for sermons, their audio
// chunks, and derived transcripts.
package store

import "time"

// Sermon represents a recorded sermon owned by a user. Deletion is soft:
// DeletedAt is set and the row is excluded from normal listings.
type Sermon struct {
	ID         string
	UserID     string
	Title      string
	RecordedAt time.Time
	DeletedAt  *time.Time
	NeedsSync  bool
}

// AudioChunk is a fixed-duration slice of a sermon recording, persisted and
// uploaded independently. Its persistence identity is the natural key
// (SermonID, ChunkIndex), not ID.
type AudioChunk struct {
	ID                 string
	SermonID           string
	ChunkIndex         int
	StartOffsetSeconds float64
	DurationSeconds    float64
	LocalPath          string
	NeedsSync          bool
}

// WordTimestamp locates a single recognized word within the recording.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the corrected transcription of a full sermon.
type Transcript struct {
	ID        string
	SermonID  string
	Content   string
	Words     []WordTimestamp
	UpdatedAt time.Time
}

// Page is one page of a sermon listing. NextCursor is empty on the final
// page.
type Page struct {
	Sermons    []Sermon
	NextCursor string
	HasMore    bool
}
