// Package analytics summarises recorded practice sessions.
package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"session-ready/internal/storage"
	"session-ready/internal/transcript"
)

// DailyStats holds practice activity for one day.
type DailyStats struct {
	Date              string                   `json:"date"`
	Sessions          int                      `json:"sessions"`
	UniqueOperators   int                      `json:"unique_operators"`
	OperatorTurns     int                      `json:"operator_turns"`
	CounterpartTurns  int                      `json:"counterpart_turns"`
	PracticeTime      time.Duration            `json:"practice_time"`
	SessionsByPersona map[string]int           `json:"sessions_by_persona"`
	OperatorStats     map[string]OperatorStats `json:"operator_stats"`
}

// OperatorStats is the share of one owner.
type OperatorStats struct {
	OwnerID      string        `json:"owner_id"`
	Sessions     int           `json:"sessions"`
	Turns        int           `json:"turns"`
	PracticeTime time.Duration `json:"practice_time"`
}

// AnalyzeDay counts sessions that ended on the day of target, in the
// location of target.
func AnalyzeDay(records []storage.Record, target time.Time) *DailyStats {
	startOfDay := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:              startOfDay.Format("2006-01-02"),
		SessionsByPersona: make(map[string]int),
		OperatorStats:     make(map[string]OperatorStats),
	}

	for _, rec := range records {
		if rec.EndedAt.Before(startOfDay) || !rec.EndedAt.Before(endOfDay) {
			continue
		}
		// sessions that never got past the greeting are not practice
		if len(rec.Entries) < 2 {
			continue
		}

		stats.Sessions++
		stats.SessionsByPersona[rec.PersonaName]++

		dur := rec.EndedAt.Sub(rec.StartedAt)
		if dur < 0 {
			dur = 0
		}
		stats.PracticeTime += dur

		op := stats.OperatorStats[rec.OwnerID]
		op.OwnerID = rec.OwnerID
		op.Sessions++
		op.PracticeTime += dur

		for _, e := range rec.Entries {
			switch e.Role {
			case transcript.RoleOperator:
				stats.OperatorTurns++
				op.Turns++
			case transcript.RoleCounterpart:
				stats.CounterpartTurns++
			}
		}
		stats.OperatorStats[rec.OwnerID] = op
	}

	stats.UniqueOperators = len(stats.OperatorStats)
	return stats
}

// Summary renders a plain text report.
func (ds *DailyStats) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Practice report for %s\n\n", ds.Date)
	if ds.Sessions == 0 {
		sb.WriteString("No practice sessions.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Sessions: %d\n", ds.Sessions)
	fmt.Fprintf(&sb, "Operators: %d\n", ds.UniqueOperators)
	fmt.Fprintf(&sb, "Turns: %d operator, %d client\n", ds.OperatorTurns, ds.CounterpartTurns)
	fmt.Fprintf(&sb, "Practice time: %s\n", ds.PracticeTime.Round(time.Minute))

	sb.WriteString("\nBy client:\n")
	for _, name := range sortedKeys(ds.SessionsByPersona) {
		fmt.Fprintf(&sb, "- %s: %d\n", name, ds.SessionsByPersona[name])
	}

	sb.WriteString("\nBy operator:\n")
	owners := make([]string, 0, len(ds.OperatorStats))
	for owner := range ds.OperatorStats {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	for _, owner := range owners {
		st := ds.OperatorStats[owner]
		fmt.Fprintf(&sb, "- %s: %d sessions, %d turns\n", owner, st.Sessions, st.Turns)
	}
	return sb.String()
}

// ToJSON serialises the stats for machine consumers.
func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
