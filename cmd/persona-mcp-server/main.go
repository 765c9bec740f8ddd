package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"session-ready/internal/config"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	loc, err := prompt.ParseLocale(cfg.Locale, cfg.TimeZone)
	if err != nil {
		log.Fatalf("❌ Invalid locale: %v", err)
	}

	store := persona.NewStore(persona.ListBuiltins())
	if path := cfg.PersonasFilePath; path != "" {
		custom, err := persona.LoadFile(path, nil)
		if err != nil {
			log.Fatalf("❌ Failed to load personas: %v", err)
		}
		for _, p := range custom {
			if err := store.AddCustom(p); err != nil {
				log.Fatalf("❌ Failed to add persona %s: %v", p.ID, err)
			}
		}
	}

	var rec storage.Recorder
	if path := cfg.TranscriptLogPath; path != "" {
		fr, err := storage.NewFileRecorder(path)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
		}
	}

	log.Printf("🚀 Starting Persona MCP Server with %d personas", len(store.All()))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "session-ready-persona-mcp",
		Version: "1.0.0",
	}, nil)

	personaServer := NewPersonaMCPServer(store, prompt.NewBuilder(loc), rec)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_personas",
		Description: "Lists practice client personas with id, name, voice and room",
	}, personaServer.ListPersonas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_personas",
		Description: "Finds personas whose name, personality or description contains the query",
	}, personaServer.SearchPersonas)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_system_instruction",
		Description: "Renders the system instruction a live session would use for a persona",
	}, personaServer.BuildSystemInstruction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_voices",
		Description: "Lists the prebuilt voices of the live service",
	}, personaServer.ListVoices)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "recent_sessions",
		Description: "Returns the most recent finished practice sessions with their transcripts",
	}, personaServer.RecentSessions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "daily_stats",
		Description: "Summarises practice sessions that ended on a given day",
	}, personaServer.DailyStats)

	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
