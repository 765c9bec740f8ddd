package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session-ready/internal/live"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/storage"
	"session-ready/internal/transcript"
	"session-ready/internal/ui"
)

type memRecorder struct {
	mu      sync.Mutex
	records []storage.Record
}

func (m *memRecorder) AppendSession(rec storage.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memRecorder) LoadSessions() ([]storage.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.Record(nil), m.records...), nil
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	s        *Session
	fake     *live.Fake
	personas *persona.Store
	flags    *ui.Flags
	rec      *memRecorder
	clock    *manualClock
	lost     chan string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fake:     live.NewFake(),
		personas: persona.NewStore(persona.ListBuiltins()),
		flags:    ui.NewFlags(),
		rec:      &memRecorder{},
		clock:    &manualClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)},
		lost:     make(chan string, 4),
	}
	f.flags.SetShowUserConfig(false)
	f.s = New(Deps{
		Personas: f.personas,
		Flags:    f.flags,
		Live:     f.fake,
		Prompt:   &prompt.Builder{Clock: f.clock.Now, Locale: prompt.DefaultLocale},
		Model:    "models/test",
		Recorder: f.rec,
		OwnerID:  "chat-1",
		Clock:    f.clock.Now,
		OnConnectionLost: func(msg string) {
			f.lost <- msg
		},
	})
	t.Cleanup(f.s.Close)
	return f
}

func (f *fixture) contents() []string {
	var out []string
	for _, e := range f.s.Status().Transcript.Entries {
		out = append(out, e.Content)
	}
	return out
}

func TestConnectGreetsAsCurrentPersona(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	malik := f.personas.Current()

	require.NoError(t, f.s.Connect(ctx))

	st := f.s.Status()
	assert.True(t, st.Connected)
	assert.NotEmpty(t, st.SessionID)
	assert.Equal(t, transcript.AwaitingGreeting, st.Transcript.State)
	assert.Equal(t, []string{malik.InitialGreeting}, f.contents())

	cfgs := f.fake.Configs()
	require.Len(t, cfgs, 1)
	assert.Equal(t, persona.VoiceCharon, cfgs[0].Voice)
	assert.Equal(t, "models/test", cfgs[0].Model)
	assert.Contains(t, cfgs[0].SystemInstruction, malik.DetailedProfile)

	texts := f.fake.Texts()
	require.Len(t, texts, 1)
	assert.Equal(t, prompt.KickoffPrompt(malik), texts[0].Text)

	// connecting twice is a no-op
	require.NoError(t, f.s.Connect(ctx))
	assert.Len(t, f.fake.Configs(), 1)
}

func TestConnectRequiresUsablePersona(t *testing.T) {
	f := newFixture(t)
	f.personas.SetCurrent(persona.Persona{ID: "blank"})
	err := f.s.Connect(context.Background())
	assert.ErrorIs(t, err, persona.ErrIncomplete)
	assert.Empty(t, f.fake.Calls())
}

func TestConnectFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	f.fake.FailConnect(errors.New("dial tcp: refused"))

	err := f.s.Connect(context.Background())
	var cerr *ConnectError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "malik-anxious", cerr.PersonaID)

	st := f.s.Status()
	assert.False(t, st.Connected)
	assert.Equal(t, cerr.StatusMessage(), st.Message)
	assert.Equal(t, transcript.Idle, st.Transcript.State)

	f.fake.FailConnect(nil)
	require.NoError(t, f.s.Connect(context.Background()))
	assert.Empty(t, f.s.Status().Message)
}

func TestSwitchPersonaTearsDownThenReconnects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))

	require.NoError(t, f.s.SwitchPersona(ctx, "aiko-grieving", true))

	assert.Equal(t, []string{"connect", "text", "disconnect", "connect", "text"}, f.fake.Calls())
	assert.Equal(t, "aiko-grieving", f.personas.Current().ID)
	cfgs := f.fake.Configs()
	require.Len(t, cfgs, 2)
	assert.Equal(t, persona.VoiceKore, cfgs[1].Voice)

	aiko, _ := f.personas.Lookup("aiko-grieving")
	assert.Equal(t, []string{aiko.InitialGreeting}, f.contents())

	records, _ := f.rec.LoadSessions()
	require.Len(t, records, 1)
	assert.Equal(t, "malik-anxious", records[0].PersonaID)
	assert.Equal(t, "chat-1", records[0].OwnerID)
}

func TestSwitchPersonaWithoutReconnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))

	require.NoError(t, f.s.SwitchPersona(ctx, "zahra-depression", false))
	assert.False(t, f.s.Connected())
	assert.Equal(t, "zahra-depression", f.personas.Current().ID)
	assert.Empty(t, f.contents())
}

func TestSwitchPersonaUnknownChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))

	err := f.s.SwitchPersona(ctx, "nobody", true)
	var rerr *persona.ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.True(t, f.s.Connected())
	assert.Equal(t, "malik-anxious", f.personas.Current().ID)
	assert.Equal(t, []string{"connect", "text"}, f.fake.Calls())
}

func TestStaleEventsAfterSwitchAreDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))
	old := f.fake.Generation()

	require.NoError(t, f.s.SwitchPersona(ctx, "jordan-trauma", true))
	require.NotEqual(t, old, f.fake.Generation())

	f.fake.Emit(transcript.Content{Gen: old, Parts: []transcript.Part{{Text: "straggler from Malik"}}})
	f.fake.Reply("I guess I should start somewhere.")

	require.Eventually(t, func() bool { return len(f.contents()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.NotContains(t, f.contents(), "straggler from Malik")
	assert.GreaterOrEqual(t, f.s.Status().Transcript.Discarded, 1)
}

func TestSubmitAndReply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.s.Submit(ctx, "hello?")
	assert.ErrorIs(t, err, transcript.ErrNoSession)

	require.NoError(t, f.s.Connect(ctx))
	entry, err := f.s.Submit(ctx, "  What brings you in today?  ")
	require.NoError(t, err)
	assert.Equal(t, "What brings you in today?", entry.Content)
	assert.Equal(t, live.SentText{Text: "What brings you in today?", EndOfTurn: true}, f.fake.Texts()[1])

	f.fake.Reply("Work, mostly.")
	require.Eventually(t, func() bool { return len(f.contents()) == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Work, mostly.", f.contents()[2])
	assert.False(t, f.s.Status().Transcript.AwaitingReply)
}

func TestSubmitDeliveryFailureKeepsEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))

	boom := errors.New("socket closed")
	f.fake.FailSend(boom)
	entry, err := f.s.Submit(ctx, "Are you still there?")

	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, entry.ID, derr.EntryID)
	assert.ErrorIs(t, err, boom)

	snap := f.s.Status().Transcript
	assert.True(t, snap.LastDeliveryFailed)
	assert.Equal(t, "Are you still there?", snap.Entries[len(snap.Entries)-1].Content)
}

func TestPauseMuteAndAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chunk := live.EncodePCM16([]int16{1, 2, 3})

	require.NoError(t, f.s.SendAudio(ctx, chunk))
	assert.ErrorIs(t, f.s.Pause(ctx), transcript.ErrNoSession)

	require.NoError(t, f.s.Connect(ctx))
	require.NoError(t, f.s.Pause(ctx))
	assert.Equal(t, prompt.PauseNotice, f.fake.Texts()[1].Text)
	assert.True(t, f.s.Status().Paused)

	_, err := f.s.Submit(ctx, "hello")
	assert.ErrorIs(t, err, ErrPaused)
	require.NoError(t, f.s.SendAudio(ctx, chunk))
	assert.Empty(t, f.fake.Audio())

	require.NoError(t, f.s.Resume(ctx))
	assert.Equal(t, prompt.ResumeNotice, f.fake.Texts()[2].Text)
	require.NoError(t, f.s.SendAudio(ctx, chunk))
	assert.Len(t, f.fake.Audio(), 1)

	f.s.SetMuted(true)
	require.NoError(t, f.s.SendAudio(ctx, chunk))
	assert.Len(t, f.fake.Audio(), 1)
	assert.True(t, f.s.Status().Muted)

	// notices are not transcript entries
	assert.Len(t, f.contents(), 1)
}

func TestOpeningEditorEndsSession(t *testing.T) {
	for name, open := range map[string]func(*ui.Flags){
		"persona editor": func(fl *ui.Flags) { fl.SetShowAgentEdit(true) },
		"profile editor": func(fl *ui.Flags) { fl.SetShowUserConfig(true) },
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.s.Connect(context.Background()))

			f.flags.SetShowClientSelector(true)
			assert.True(t, f.s.Connected(), "selector alone keeps the session")

			open(f.flags)
			assert.False(t, f.s.Connected())
			assert.Empty(t, f.contents())
			calls := f.fake.Calls()
			assert.Equal(t, "disconnect", calls[len(calls)-1])
		})
	}
}

func TestServiceDropEndsSessionAndAllowsReconnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))
	_, err := f.s.Submit(ctx, "Are you still with me?")
	require.NoError(t, err)

	f.fake.Drop("going away")
	require.Eventually(t, func() bool { return !f.s.Connected() }, 2*time.Second, 5*time.Millisecond)

	select {
	case msg := <-f.lost:
		assert.Equal(t, LostConnectionMessage, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("connection loss was not reported")
	}
	st := f.s.Status()
	assert.Equal(t, LostConnectionMessage, st.Message)
	assert.Equal(t, transcript.Idle, st.Transcript.State)
	records, _ := f.rec.LoadSessions()
	require.Len(t, records, 1)
	assert.Len(t, records[0].Entries, 2)

	require.NoError(t, f.s.Connect(ctx))
	assert.Equal(t, []string{"connect", "text", "text", "disconnect", "connect", "text"}, f.fake.Calls())
	assert.Empty(t, f.s.Status().Message)
	_, err = f.s.Submit(ctx, "Picking up where we left off.")
	assert.NoError(t, err)
}

func TestDropFromEarlierConnectionIsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))
	old := f.fake.Generation()
	f.s.EndSession()
	require.NoError(t, f.s.Connect(ctx))

	f.fake.Emit(transcript.Closed{Gen: old, Reason: "late"})
	f.fake.Reply("Still here.")
	require.Eventually(t, func() bool { return len(f.contents()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, f.s.Connected())
	assert.Empty(t, f.s.Status().Message)
	assert.Empty(t, f.lost)
}

func TestEndSessionRecordsAndClears(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.s.Connect(ctx))
	_, err := f.s.Submit(ctx, "Let's begin.")
	require.NoError(t, err)

	f.s.EndSession()
	f.s.EndSession()

	st := f.s.Status()
	assert.False(t, st.Connected)
	assert.Equal(t, transcript.Idle, st.Transcript.State)
	assert.Empty(t, st.Transcript.Entries)

	records, _ := f.rec.LoadSessions()
	require.Len(t, records, 1)
	assert.Len(t, records[0].Entries, 2)
	assert.Equal(t, "Malik - Anxious Professional", records[0].PersonaName)
}

func TestEndIfIdle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.Connect(context.Background()))

	f.clock.Advance(10 * time.Minute)
	assert.False(t, f.s.EndIfIdle(f.clock.Now(), 30*time.Minute))
	assert.True(t, f.s.Connected())

	f.clock.Advance(25 * time.Minute)
	assert.True(t, f.s.EndIfIdle(f.clock.Now(), 30*time.Minute))
	assert.False(t, f.s.Connected())
	assert.False(t, f.s.EndIfIdle(f.clock.Now(), 30*time.Minute))
}
