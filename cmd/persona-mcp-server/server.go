package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"session-ready/internal/analytics"
	"session-ready/internal/operator"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/storage"
)

type ListPersonasParams struct {
	CustomOnly bool `json:"custom_only,omitempty" mcp:"if true, list only personas loaded from the personas file"`
}

type SearchPersonasParams struct {
	Query string `json:"query" mcp:"text matched against name, personality and description"`
}

type BuildInstructionParams struct {
	PersonaID     string `json:"persona_id" mcp:"id of the persona to play"`
	TherapistName string `json:"therapist_name,omitempty" mcp:"name the client uses for the therapist"`
	Approach      string `json:"approach,omitempty" mcp:"therapist approach or specialization"`
}

type RecentSessionsParams struct {
	Limit int `json:"limit,omitempty" mcp:"maximum number of sessions to return (default: 5, max: 50)"`
}

type DailyStatsParams struct {
	Date string `json:"date,omitempty" mcp:"day to report in YYYY-MM-DD, UTC (default: today)"`
}

// PersonaSummary is the listing form of a persona, without the long profile.
type PersonaSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Voice       string `json:"voice"`
	Room        string `json:"room"`
	Description string `json:"description,omitempty"`
}

// PersonaMCPServer exposes the persona catalog and the prompt builder.
type PersonaMCPServer struct {
	store    *persona.Store
	builder  *prompt.Builder
	recorder storage.Recorder
}

func NewPersonaMCPServer(store *persona.Store, builder *prompt.Builder, rec storage.Recorder) *PersonaMCPServer {
	return &PersonaMCPServer{store: store, builder: builder, recorder: rec}
}

func (s *PersonaMCPServer) ListPersonas(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ListPersonasParams]) (*mcp.CallToolResultFor[any], error) {
	all := s.store.All()
	if params.Arguments.CustomOnly {
		all = s.store.Custom()
	}
	log.Printf("📋 MCP Server: listing %d personas", len(all))
	return jsonResult(summaries(all))
}

func (s *PersonaMCPServer) SearchPersonas(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchPersonasParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	found := persona.Search(s.store.All(), args.Query)
	log.Printf("🔍 MCP Server: %d personas match '%s'", len(found), args.Query)
	return jsonResult(summaries(found))
}

func (s *PersonaMCPServer) BuildSystemInstruction(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[BuildInstructionParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	p, ok := s.store.Lookup(args.PersonaID)
	if !ok {
		return errorResult(fmt.Sprintf("❌ Unknown persona id '%s'", args.PersonaID)), nil
	}
	text := s.builder.SystemInstruction(p, operator.Profile{DisplayName: args.TherapistName, ApproachNotes: args.Approach})
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil
}

func (s *PersonaMCPServer) ListVoices(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[struct{}]) (*mcp.CallToolResultFor[any], error) {
	return jsonResult(persona.Voices())
}

func (s *PersonaMCPServer) RecentSessions(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[RecentSessionsParams]) (*mcp.CallToolResultFor[any], error) {
	if s.recorder == nil {
		return errorResult("❌ Session log is disabled (TRANSCRIPT_LOG_PATH is empty)"), nil
	}
	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	records, err := s.recorder.LoadSessions()
	if err != nil {
		return errorResult(fmt.Sprintf("❌ Failed to load sessions: %v", err)), nil
	}
	if len(records) > limit {
		records = records[len(records)-limit:]
	}
	return jsonResult(records)
}

func (s *PersonaMCPServer) DailyStats(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[DailyStatsParams]) (*mcp.CallToolResultFor[any], error) {
	if s.recorder == nil {
		return errorResult("❌ Session log is disabled (TRANSCRIPT_LOG_PATH is empty)"), nil
	}
	day := time.Now().UTC()
	if params.Arguments.Date != "" {
		parsed, err := time.Parse("2006-01-02", params.Arguments.Date)
		if err != nil {
			return errorResult(fmt.Sprintf("❌ Invalid date %q, expected YYYY-MM-DD", params.Arguments.Date)), nil
		}
		day = parsed
	}
	records, err := s.recorder.LoadSessions()
	if err != nil {
		return errorResult(fmt.Sprintf("❌ Failed to load sessions: %v", err)), nil
	}
	return jsonResult(analytics.AnalyzeDay(records, day))
}

func summaries(ps []persona.Persona) []PersonaSummary {
	out := make([]PersonaSummary, 0, len(ps))
	for _, p := range ps {
		out = append(out, PersonaSummary{
			ID:          p.ID,
			Name:        p.Name,
			Voice:       string(p.Voice),
			Room:        string(p.RoomOrDefault()),
			Description: p.Description,
		})
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil
}

func errorResult(msg string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
