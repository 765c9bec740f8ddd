package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"session-ready/internal/storage"
	"session-ready/internal/transcript"
)

func turns(roles ...transcript.Role) []transcript.Entry {
	out := make([]transcript.Entry, 0, len(roles))
	for _, r := range roles {
		out = append(out, transcript.Entry{Role: r, Content: "x"})
	}
	return out
}

func TestAnalyzeDay(t *testing.T) {
	testDate := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	op, cp := transcript.RoleOperator, transcript.RoleCounterpart

	records := []storage.Record{
		{
			OwnerID: "10", PersonaName: "Malik",
			StartedAt: testDate.Add(9 * time.Hour), EndedAt: testDate.Add(9*time.Hour + 20*time.Minute),
			Entries: turns(cp, op, cp, op, cp),
		},
		{
			OwnerID: "10", PersonaName: "Aiko",
			StartedAt: testDate.Add(11 * time.Hour), EndedAt: testDate.Add(11*time.Hour + 10*time.Minute),
			Entries: turns(cp, op, cp),
		},
		{
			OwnerID: "20", PersonaName: "Malik",
			StartedAt: testDate.Add(13 * time.Hour), EndedAt: testDate.Add(13*time.Hour + 30*time.Minute),
			Entries: turns(cp, op),
		},
		// greeting only
		{
			OwnerID: "30", PersonaName: "Zahra",
			StartedAt: testDate.Add(14 * time.Hour), EndedAt: testDate.Add(14 * time.Hour),
			Entries: turns(cp),
		},
		// next day
		{
			OwnerID: "40", PersonaName: "Jordan",
			StartedAt: testDate.AddDate(0, 0, 1), EndedAt: testDate.AddDate(0, 0, 1).Add(time.Minute),
			Entries: turns(cp, op),
		},
	}

	stats := AnalyzeDay(records, testDate.Add(15*time.Hour))

	if stats.Date != "2026-10-16" {
		t.Errorf("Expected date '2026-10-16', got '%s'", stats.Date)
	}
	if stats.Sessions != 3 {
		t.Errorf("Expected 3 sessions, got %d", stats.Sessions)
	}
	if stats.UniqueOperators != 2 {
		t.Errorf("Expected 2 operators, got %d", stats.UniqueOperators)
	}
	if stats.OperatorTurns != 4 || stats.CounterpartTurns != 6 {
		t.Errorf("Unexpected turns: %d operator, %d client", stats.OperatorTurns, stats.CounterpartTurns)
	}
	if stats.PracticeTime != time.Hour {
		t.Errorf("Expected 1h practice, got %s", stats.PracticeTime)
	}
	if stats.SessionsByPersona["Malik"] != 2 || stats.SessionsByPersona["Aiko"] != 1 {
		t.Errorf("Unexpected persona counts: %v", stats.SessionsByPersona)
	}
	if _, ok := stats.SessionsByPersona["Zahra"]; ok {
		t.Errorf("greeting-only session must not count")
	}

	st, ok := stats.OperatorStats["10"]
	if !ok {
		t.Fatal("Expected stats for operator 10")
	}
	if st.Sessions != 2 || st.Turns != 3 || st.PracticeTime != 30*time.Minute {
		t.Errorf("Unexpected operator 10 stats: %+v", st)
	}
}

func TestAnalyzeDayEmpty(t *testing.T) {
	stats := AnalyzeDay(nil, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	if stats.Sessions != 0 || stats.UniqueOperators != 0 {
		t.Errorf("Expected empty stats, got %+v", stats)
	}
	if !strings.Contains(stats.Summary(), "No practice sessions.") {
		t.Errorf("Unexpected summary: %s", stats.Summary())
	}
}

func TestSummary(t *testing.T) {
	stats := &DailyStats{
		Date:              "2026-10-16",
		Sessions:          3,
		UniqueOperators:   2,
		OperatorTurns:     7,
		CounterpartTurns:  9,
		PracticeTime:      95 * time.Minute,
		SessionsByPersona: map[string]int{"Malik": 2, "Aiko": 1},
		OperatorStats: map[string]OperatorStats{
			"10": {OwnerID: "10", Sessions: 2, Turns: 5},
			"20": {OwnerID: "20", Sessions: 1, Turns: 2},
		},
	}

	summary := stats.Summary()
	for _, expected := range []string{
		"2026-10-16",
		"Sessions: 3",
		"Operators: 2",
		"7 operator, 9 client",
		"1h35m0s",
		"- Aiko: 1",
		"- Malik: 2",
		"- 10: 2 sessions, 5 turns",
	} {
		if !strings.Contains(summary, expected) {
			t.Errorf("Expected summary to contain '%s'. Summary: %s", expected, summary)
		}
	}
	if strings.Index(summary, "Aiko") > strings.Index(summary, "Malik") {
		t.Errorf("clients must be sorted by name")
	}
}

func TestToJSON(t *testing.T) {
	stats := &DailyStats{Date: "2026-10-16", Sessions: 1, SessionsByPersona: map[string]int{"Malik": 1}}
	out, err := stats.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var back DailyStats
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Sessions != 1 || back.SessionsByPersona["Malik"] != 1 {
		t.Errorf("Unexpected round trip: %+v", back)
	}
}
