package live

import (
	"context"
	"fmt"
	"log"
	"sync"

	"session-ready/internal/history"
	"session-ready/internal/llm"
	"session-ready/internal/transcript"
)

// TextBridge plays the counterpart through a plain chat-completion model.
// Replies arrive as text only; there is no speech.
type TextBridge struct {
	llm     llm.Client
	history *history.Manager

	mu          sync.Mutex
	connected   bool
	gen         transcript.Generation
	instruction string

	events chan transcript.Event
}

func NewTextBridge(client llm.Client, h *history.Manager) *TextBridge {
	if h == nil {
		h = history.NewManager(0)
	}
	return &TextBridge{
		llm:     client,
		history: h,
		events:  make(chan transcript.Event, eventBuffer),
	}
}

func (b *TextBridge) Events() <-chan transcript.Event { return b.events }

func historyKey(gen transcript.Generation) string { return fmt.Sprintf("gen-%d", gen) }

func (b *TextBridge) Connect(_ context.Context, cfg Config, gen transcript.Generation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.connected {
		b.history.Reset(historyKey(b.gen))
	}
	b.connected = true
	b.gen = gen
	b.instruction = cfg.SystemInstruction
	b.history.Reset(historyKey(gen))
	log.Printf("[live] text bridge ready gen=%d", gen)
	return nil
}

func (b *TextBridge) Disconnect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil
	}
	b.connected = false
	b.history.Reset(historyKey(b.gen))
	return nil
}

// SendText records the turn and, when endOfTurn is set, runs one completion
// over the whole history. The reply is emitted as Content then TurnComplete.
// A reply that lands after Disconnect or a newer Connect is dropped.
func (b *TextBridge) SendText(ctx context.Context, text string, endOfTurn bool) error {
	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return ErrNotConnected
	}
	gen, instruction := b.gen, b.instruction
	key := historyKey(gen)
	b.history.AppendUser(key, text)
	b.mu.Unlock()

	if !endOfTurn {
		return nil
	}

	msgs := append([]llm.Message{{Role: llm.RoleSystem, Content: instruction}}, b.history.Get(key)...)
	resp, err := b.llm.Generate(ctx, msgs)
	if err != nil {
		return fmt.Errorf("generate reply: %w", err)
	}
	b.mu.Lock()
	if !b.connected || b.gen != gen {
		b.mu.Unlock()
		log.Printf("[live] dropping reply for ended gen=%d", gen)
		return nil
	}
	b.history.AppendAssistant(key, resp.Content)
	b.mu.Unlock()
	log.Printf("[live] reply gen=%d model=%s tokens=%d", gen, resp.Model, resp.TotalTokens)

	for _, ev := range []transcript.Event{
		transcript.Content{Gen: gen, Parts: []transcript.Part{{Text: resp.Content}}, TurnComplete: true},
		transcript.TurnComplete{Gen: gen},
	} {
		select {
		case b.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *TextBridge) SendRealtimeAudio(context.Context, AudioChunk) error {
	return ErrAudioUnsupported
}
