package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"session-ready/internal/transcript"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "logs", "sessions.jsonl")
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	r1 := Record{
		SessionID: "s1", OwnerID: "chat-1", PersonaID: "malik-anxious", PersonaName: "Malik",
		StartedAt: time.Unix(1, 0).UTC(), EndedAt: time.Unix(2, 0).UTC(),
		Entries: []transcript.Entry{{ID: "e1", Role: transcript.RoleCounterpart, Content: "hi", Timestamp: time.Unix(1, 0).UTC(), Channel: transcript.ChannelSpoken}},
	}
	r2 := Record{SessionID: "s2", OwnerID: "chat-2", PersonaID: "aiko-grieving", EndedAt: time.Unix(3, 0).UTC()}
	if err := rec.AppendSession(r1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.AppendSession(r2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	records, err := rec.LoadSessions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2, got %d", len(records))
	}
	if records[0].SessionID != "s1" || records[1].SessionID != "s2" {
		t.Fatalf("order mismatch: %+v", records)
	}
	if len(records[0].Entries) != 1 || records[0].Entries[0].Channel != transcript.ChannelSpoken {
		t.Fatalf("entries not round-tripped: %+v", records[0].Entries)
	}

	// ensure file exists and non-empty
	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}

func TestFileRecorder_SkipsMalformedLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sessions.jsonl")
	if err := os.WriteFile(p, []byte("not json\n\n{\"session_id\":\"ok\"}\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec, err := NewFileRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}
	records, err := rec.LoadSessions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].SessionID != "ok" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestForOwnerNewestFirst(t *testing.T) {
	all := []Record{{SessionID: "a", OwnerID: "x"}, {SessionID: "b", OwnerID: "y"}, {SessionID: "c", OwnerID: "x"}}
	got := ForOwner(all, "x")
	if len(got) != 2 || got[0].SessionID != "c" || got[1].SessionID != "a" {
		t.Fatalf("unexpected: %+v", got)
	}
}
