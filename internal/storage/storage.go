package storage

import (
	"time"

	"session-ready/internal/transcript"
)

// Record is one finished practice session. Records are appended when a
// session ends, in chronological order of EndedAt.
type Record struct {
	SessionID   string             `json:"session_id"`
	OwnerID     string             `json:"owner_id,omitempty"`
	PersonaID   string             `json:"persona_id"`
	PersonaName string             `json:"persona_name"`
	Operator    string             `json:"operator,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	EndedAt     time.Time          `json:"ended_at"`
	Entries     []transcript.Entry `json:"entries"`
}

// Recorder abstracts persistence of finished sessions.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendSession(rec Record) error
	LoadSessions() ([]Record, error)
}

// ForOwner returns the records of one owner, newest first.
func ForOwner(records []Record, owner string) []Record {
	var out []Record
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].OwnerID == owner {
			out = append(out, records[i])
		}
	}
	return out
}
