// Package session coordinates one practice conversation: persona selection,
// the live connection and the transcript.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"session-ready/internal/live"
	"session-ready/internal/operator"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/storage"
	"session-ready/internal/transcript"
	"session-ready/internal/ui"
)

type Deps struct {
	Personas *persona.Store
	Operator *operator.Store
	Flags    *ui.Flags
	Live     live.Client
	Prompt   *prompt.Builder
	Model    string

	// Optional.
	Modalities []live.Modality
	Recorder   storage.Recorder
	OwnerID    string
	Transcript *transcript.Assembler
	Clock      func() time.Time
	// OnConnectionLost is told when the service drops a live session.
	OnConnectionLost func(message string)
}

type Status struct {
	SessionID  string
	Connected  bool
	Paused     bool
	Muted      bool
	Persona    persona.Persona
	Transcript transcript.Snapshot
	Message    string
}

type Session struct {
	personas *persona.Store
	operator *operator.Store
	flags    *ui.Flags
	live     live.Client
	prompt   *prompt.Builder
	model    string
	modes    []live.Modality
	recorder storage.Recorder
	ownerID  string
	clock    func() time.Time
	asm      *transcript.Assembler
	onLost   func(string)

	// opMu serialises connect, end and switch.
	opMu sync.Mutex

	mu        sync.Mutex
	connected bool
	paused    bool
	muted     bool
	sessionID string
	startedAt time.Time
	message   string

	lastActivity atomic.Int64
	editing      atomic.Bool

	unsubFlags func()
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

func New(d Deps) *Session {
	if d.Operator == nil {
		d.Operator = operator.NewStore()
	}
	if d.Flags == nil {
		d.Flags = ui.NewFlags()
	}
	if d.Prompt == nil {
		d.Prompt = prompt.NewBuilder(prompt.DefaultLocale)
	}
	if d.Transcript == nil {
		d.Transcript = transcript.New()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	s := &Session{
		personas: d.Personas,
		operator: d.Operator,
		flags:    d.Flags,
		live:     d.Live,
		prompt:   d.Prompt,
		model:    d.Model,
		modes:    d.Modalities,
		recorder: d.Recorder,
		ownerID:  d.OwnerID,
		clock:    d.Clock,
		asm:      d.Transcript,
		onLost:   d.OnConnectionLost,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.touch()
	s.editing.Store(s.flags.State().Editing())
	s.unsubFlags = s.flags.Subscribe(s.onFlags)
	go s.pump()
	return s
}

func (s *Session) pump() {
	defer close(s.done)
	events := s.live.Events()
	for {
		select {
		case ev := <-events:
			if s.asm.Dispatch(ev) {
				s.touch()
				if c, ok := ev.(transcript.Closed); ok {
					go s.connectionLost(c)
				}
			}
		case <-s.stop:
			return
		}
	}
}

// connectionLost ends the session the service dropped and leaves it ready
// for a fresh Connect.
func (s *Session) connectionLost(c transcript.Closed) {
	s.opMu.Lock()
	if s.asm.Generation() != c.Gen || !s.Connected() {
		s.opMu.Unlock()
		return
	}
	log.Printf("[session] connection lost gen=%d: %s", c.Gen, c.Reason)
	s.endLocked()
	s.mu.Lock()
	s.message = LostConnectionMessage
	s.mu.Unlock()
	s.opMu.Unlock()

	if s.onLost != nil {
		s.onLost(LostConnectionMessage)
	}
}

// onFlags ends a live session when an editor opens.
func (s *Session) onFlags(st ui.State) {
	was := s.editing.Swap(st.Editing())
	if st.Editing() && !was && s.Connected() {
		log.Printf("[session] editor opened, ending session")
		s.EndSession()
	}
}

func (s *Session) touch() { s.lastActivity.Store(s.clock().UnixNano()) }

func (s *Session) LastActivity() time.Time { return time.Unix(0, s.lastActivity.Load()) }

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Subscribe registers fn for every transcript entry appended.
func (s *Session) Subscribe(fn func(transcript.Entry)) (unsubscribe func()) {
	return s.asm.Subscribe(fn)
}

// Connect opens a live session as the current persona. An already connected
// session is left alone.
func (s *Session) Connect(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Session) connectLocked(ctx context.Context) error {
	if s.Connected() {
		return nil
	}
	p := s.personas.Current()
	if err := p.Usable(); err != nil {
		return fmt.Errorf("current persona: %w", err)
	}

	gen := s.asm.Begin()
	cfg := live.NewConfig(s.model, s.prompt.SystemInstruction(p, s.operator.Profile()), p.Voice)
	if len(s.modes) > 0 {
		cfg.Modalities = s.modes
	}
	if err := s.live.Connect(ctx, cfg, gen); err != nil {
		cerr := &ConnectError{PersonaID: p.ID, Err: err}
		log.Printf("[session] %v", cerr)
		s.mu.Lock()
		s.message = cerr.StatusMessage()
		s.mu.Unlock()
		return cerr
	}

	s.mu.Lock()
	s.connected = true
	s.paused = false
	s.sessionID = uuid.NewString()
	s.startedAt = s.clock()
	s.message = ""
	s.mu.Unlock()
	s.touch()

	s.asm.Connected(gen, p.InitialGreeting)
	if err := s.live.SendText(ctx, prompt.KickoffPrompt(p), true); err != nil {
		log.Printf("[session] kickoff for %s failed: %v", p.ID, err)
	}
	log.Printf("[session] connected persona=%s gen=%d", p.ID, gen)
	return nil
}

// EndSession records the transcript, clears it and drops the connection
// without waiting for the service to acknowledge.
func (s *Session) EndSession() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.endLocked()
}

func (s *Session) endLocked() {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return
	}
	s.connected = false
	s.paused = false
	id, started := s.sessionID, s.startedAt
	s.mu.Unlock()

	s.record(id, started)
	s.asm.End()
	if err := s.live.Disconnect(); err != nil {
		log.Printf("[session] disconnect: %v", err)
	}
	log.Printf("[session] ended %s", id)
}

func (s *Session) record(id string, started time.Time) {
	if s.recorder == nil {
		return
	}
	entries := s.asm.Entries()
	if len(entries) == 0 {
		return
	}
	p := s.personas.Current()
	rec := storage.Record{
		SessionID:   id,
		OwnerID:     s.ownerID,
		PersonaID:   p.ID,
		PersonaName: p.Name,
		Operator:    s.operator.Profile().DisplayName,
		StartedAt:   started,
		EndedAt:     s.clock(),
		Entries:     entries,
	}
	if err := s.recorder.AppendSession(rec); err != nil {
		log.Printf("[session] record %s: %v", id, err)
	}
}

// SwitchPersona tears down any live session, makes id current and, when
// reconnect is set, connects again as the new persona. An unknown id changes
// nothing.
func (s *Session) SwitchPersona(ctx context.Context, id string, reconnect bool) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, ok := s.personas.Lookup(id); !ok {
		return &persona.ResolutionError{ID: id}
	}
	s.endLocked()
	if err := s.personas.SetCurrentByID(id); err != nil {
		return err
	}
	if !reconnect {
		return nil
	}
	return s.connectLocked(ctx)
}

// Submit appends typed operator text and forwards it. A failed delivery
// keeps the entry and returns *DeliveryError.
func (s *Session) Submit(ctx context.Context, text string) (transcript.Entry, error) {
	s.mu.Lock()
	paused := s.paused
	s.mu.Unlock()
	if paused {
		return transcript.Entry{}, ErrPaused
	}

	entry, err := s.asm.Submit(text)
	if err != nil {
		return transcript.Entry{}, err
	}
	s.touch()
	if err := s.live.SendText(ctx, entry.Content, true); err != nil {
		s.asm.MarkDeliveryFailed(err)
		log.Printf("[session] delivery of %s failed: %v", entry.ID, err)
		return entry, &DeliveryError{EntryID: entry.ID, Err: err}
	}
	s.asm.MarkDelivered()
	return entry, nil
}

// SendAudio forwards microphone audio. Chunks are dropped while
// disconnected, muted or paused.
func (s *Session) SendAudio(ctx context.Context, chunk live.AudioChunk) error {
	s.mu.Lock()
	drop := !s.connected || s.muted || s.paused
	s.mu.Unlock()
	if drop {
		return nil
	}
	s.touch()
	return s.live.SendRealtimeAudio(ctx, chunk)
}

func (s *Session) Pause(ctx context.Context) error {
	return s.setPaused(ctx, true, prompt.PauseNotice)
}

func (s *Session) Resume(ctx context.Context) error {
	return s.setPaused(ctx, false, prompt.ResumeNotice)
}

func (s *Session) setPaused(ctx context.Context, paused bool, notice string) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return transcript.ErrNoSession
	}
	if s.paused == paused {
		s.mu.Unlock()
		return nil
	}
	s.paused = paused
	s.mu.Unlock()

	s.touch()
	if err := s.live.SendText(ctx, notice, true); err != nil {
		return fmt.Errorf("send notice: %w", err)
	}
	return nil
}

func (s *Session) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// EndIfIdle ends a live session whose last activity is older than timeout.
func (s *Session) EndIfIdle(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 || !s.Connected() || now.Sub(s.LastActivity()) < timeout {
		return false
	}
	s.EndSession()
	return true
}

func (s *Session) Status() Status {
	s.mu.Lock()
	st := Status{
		SessionID: s.sessionID,
		Connected: s.connected,
		Paused:    s.paused,
		Muted:     s.muted,
		Message:   s.message,
	}
	s.mu.Unlock()
	st.Persona = s.personas.Current()
	st.Transcript = s.asm.Snapshot()
	return st
}

// Close ends any live session and stops the event pump.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubFlags()
		s.EndSession()
		close(s.stop)
		<-s.done
	})
}
