package live

import (
	"context"
	"sync"

	"session-ready/internal/transcript"
)

// SentText is one SendText call seen by Fake.
type SentText struct {
	Text      string
	EndOfTurn bool
}

// Fake is an in-memory Client. It records every call and emits only what
// the test pushes with Emit or Reply.
type Fake struct {
	mu         sync.Mutex
	connected  bool
	gen        transcript.Generation
	calls      []string
	configs    []Config
	texts      []SentText
	audio      []AudioChunk
	connectErr error
	sendErr    error

	events chan transcript.Event
}

func NewFake() *Fake {
	return &Fake{events: make(chan transcript.Event, eventBuffer)}
}

func (f *Fake) Events() <-chan transcript.Event { return f.events }

func (f *Fake) Connect(_ context.Context, cfg Config, gen transcript.Generation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "connect")
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	f.gen = gen
	f.configs = append(f.configs, cfg)
	return nil
}

func (f *Fake) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "disconnect")
	f.connected = false
	return nil
}

func (f *Fake) SendText(_ context.Context, text string, endOfTurn bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "text")
	if !f.connected {
		return ErrNotConnected
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.texts = append(f.texts, SentText{Text: text, EndOfTurn: endOfTurn})
	return nil
}

func (f *Fake) SendRealtimeAudio(_ context.Context, chunk AudioChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return ErrNotConnected
	}
	f.audio = append(f.audio, chunk)
	return nil
}

func (f *Fake) FailConnect(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectErr = err
}

func (f *Fake) FailSend(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}

// Emit pushes ev as if the service had sent it.
func (f *Fake) Emit(ev transcript.Event) { f.events <- ev }

// Reply emits a text turn tagged with the current generation.
func (f *Fake) Reply(text string) {
	gen := f.Generation()
	f.Emit(transcript.Content{Gen: gen, Parts: []transcript.Part{{Text: text}}})
	f.Emit(transcript.TurnComplete{Gen: gen})
}

// Drop simulates the service closing the connection on its own.
func (f *Fake) Drop(reason string) {
	f.mu.Lock()
	f.connected = false
	gen := f.gen
	f.mu.Unlock()
	f.Emit(transcript.Closed{Gen: gen, Reason: reason})
}

func (f *Fake) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *Fake) Generation() transcript.Generation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) Configs() []Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Config(nil), f.configs...)
}

func (f *Fake) Texts() []SentText {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentText(nil), f.texts...)
}

func (f *Fake) Audio() []AudioChunk {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AudioChunk(nil), f.audio...)
}
