// Package transcript assembles the live conversation into an ordered,
// de-duplicated list of entries.
package transcript

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"session-ready/internal/observe"
)

// FallbackGreeting is shown when the persona has no greeting of its own.
const FallbackGreeting = "Hello, I'm here for my session."

var (
	ErrEmptySubmission = errors.New("submission is empty")
	ErrNoSession       = errors.New("no active session")
)

// Snapshot is a consistent copy of the assembler state.
type Snapshot struct {
	Generation         Generation
	State              State
	Entries            []Entry
	AwaitingReply      bool
	LastDeliveryFailed bool
	LastDeliveryError  error
	Discarded          int
}

// ClientSpeaking reports whether synthesized speech is in progress.
func (s Snapshot) ClientSpeaking() bool { return s.State == ClientSpeaking }

type Option func(*Assembler)

func WithClock(clock func() time.Time) Option {
	return func(a *Assembler) { a.clock = clock }
}

func WithIDSource(next func() string) Option {
	return func(a *Assembler) { a.newID = next }
}

// Assembler is the per-session transcript state machine. Transitions are
// serialised by a mutex, so events may be dispatched from a pump goroutine
// while the caller submits from its own.
type Assembler struct {
	mu    sync.Mutex
	clock func() time.Time
	newID func() string

	gen                Generation
	state              State
	entries            []Entry
	awaitingReply      bool
	lastDeliveryFailed bool
	lastDeliveryErr    error
	discarded          int

	listeners observe.Registry[Entry]
}

func New(opts ...Option) *Assembler {
	a := &Assembler{clock: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Subscribe registers fn for every appended entry.
func (a *Assembler) Subscribe(fn func(Entry)) (unsubscribe func()) {
	return a.listeners.Subscribe(fn)
}

// Begin starts a new generation for a connection attempt. Anything left from
// a previous session is cleared.
func (a *Assembler) Begin() Generation {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetUnlocked()
	return a.gen
}

// End clears the transcript and returns to Idle. Events of the ended
// generation that arrive later are discarded.
func (a *Assembler) End() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetUnlocked()
}

func (a *Assembler) resetUnlocked() {
	a.gen++
	a.state = Idle
	a.entries = nil
	a.awaitingReply = false
	a.lastDeliveryFailed = false
	a.lastDeliveryErr = nil
}

// Connected moves Idle to AwaitingGreeting and synthesizes the greeting as
// the first entry when the transcript is empty.
func (a *Assembler) Connected(gen Generation, greeting string) bool {
	a.mu.Lock()
	if gen != a.gen {
		a.discarded++
		a.mu.Unlock()
		return false
	}
	if a.state != Idle {
		a.mu.Unlock()
		return false
	}
	a.state = AwaitingGreeting
	var appended *Entry
	if len(a.entries) == 0 {
		if strings.TrimSpace(greeting) == "" {
			greeting = FallbackGreeting
		}
		e := a.appendUnlocked(RoleCounterpart, greeting, ChannelSpoken)
		appended = &e
	}
	a.mu.Unlock()

	if appended != nil {
		a.listeners.Notify(*appended)
	}
	return true
}

// Submit records typed operator text. Forwarding it to the live service is
// the caller's job; report the outcome with MarkDelivered or
// MarkDeliveryFailed.
func (a *Assembler) Submit(text string) (Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, ErrEmptySubmission
	}
	a.mu.Lock()
	if a.state == Idle {
		a.mu.Unlock()
		return Entry{}, ErrNoSession
	}
	e := a.appendUnlocked(RoleOperator, text, ChannelTyped)
	a.state = Conversing
	a.awaitingReply = true
	a.mu.Unlock()

	a.listeners.Notify(e)
	return e, nil
}

func (a *Assembler) MarkDelivered() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastDeliveryFailed = false
	a.lastDeliveryErr = nil
}

// MarkDeliveryFailed flags the last submission as undelivered. The entry
// stays in the transcript and nothing is retried.
func (a *Assembler) MarkDeliveryFailed(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastDeliveryFailed = true
	a.lastDeliveryErr = err
	a.awaitingReply = false
}

// Dispatch applies one inbound event. It returns false when the event was
// discarded for belonging to a superseded generation or to no session.
func (a *Assembler) Dispatch(ev Event) bool {
	a.mu.Lock()
	if ev.Generation() != a.gen || a.state == Idle {
		a.discarded++
		a.mu.Unlock()
		return false
	}

	var appended *Entry
	switch e := ev.(type) {
	case Content:
		text := joinText(e.Parts)
		if text != "" {
			if !a.repeatsLastUnlocked(text) {
				entry := a.appendUnlocked(RoleCounterpart, text, ChannelSpoken)
				appended = &entry
			}
			a.state = Conversing
			a.awaitingReply = false
		} else if e.TurnComplete {
			a.state = Conversing
		}
	case AudioStarted:
		a.state = ClientSpeaking
		a.awaitingReply = false
	case Interrupted:
		a.state = Conversing
		a.awaitingReply = false
	case TurnComplete:
		a.state = Conversing
	case Closed:
		// no reply will arrive on a dropped connection
		a.awaitingReply = false
	case Log:
		// diagnostics only
	}
	a.mu.Unlock()

	if appended != nil {
		a.listeners.Notify(*appended)
	}
	return true
}

func (a *Assembler) repeatsLastUnlocked(text string) bool {
	if len(a.entries) == 0 {
		return false
	}
	last := a.entries[len(a.entries)-1]
	return last.Role == RoleCounterpart && last.Content == text
}

func (a *Assembler) appendUnlocked(role Role, content string, ch Channel) Entry {
	e := Entry{
		ID:        a.newID(),
		Role:      role,
		Content:   content,
		Timestamp: a.clock(),
		Channel:   ch,
	}
	a.entries = append(a.entries, e)
	return e
}

func joinText(parts []Part) string {
	var texts []string
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, " ")
}

func (a *Assembler) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Entry(nil), a.entries...)
}

func (a *Assembler) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Assembler) Generation() Generation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

func (a *Assembler) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Generation:         a.gen,
		State:              a.state,
		Entries:            append([]Entry(nil), a.entries...),
		AwaitingReply:      a.awaitingReply,
		LastDeliveryFailed: a.lastDeliveryFailed,
		LastDeliveryError:  a.lastDeliveryErr,
		Discarded:          a.discarded,
	}
}
