// Package telegram runs practice sessions inside Telegram chats. Each chat
// gets its own persona catalog, operator profile and live connection.
package telegram

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"session-ready/internal/analytics"
	"session-ready/internal/auth"
	"session-ready/internal/live"
	"session-ready/internal/operator"
	"session-ready/internal/pending"
	"session-ready/internal/persona"
	"session-ready/internal/prompt"
	"session-ready/internal/session"
	"session-ready/internal/storage"
	"session-ready/internal/transcript"
	"session-ready/internal/ui"
)

type Deps struct {
	Auth        *auth.Service
	AdminID     int64
	Pending     pending.Repository
	Personas    []persona.Persona
	Custom      []persona.Persona
	NewLive     func() (live.Client, error)
	Locale      prompt.Locale
	Model       string
	Recorder    storage.Recorder
	IdleTimeout time.Duration
}

type chat struct {
	id       int64
	session  *session.Session
	personas *persona.Store
	operator *operator.Store
	flags    *ui.Flags
	unsub    func()
}

type Bot struct {
	api  *tgbotapi.BotAPI
	s    sender
	deps Deps
	now  func() time.Time

	mu    sync.Mutex
	chats map[int64]*chat
}

func New(botToken string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	b := newBot(botAPISender{api: api}, deps)
	b.api = api
	return b, nil
}

func newBot(s sender, deps Deps) *Bot {
	return &Bot{s: s, deps: deps, now: time.Now, chats: make(map[int64]*chat)}
}

// Start consumes updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("[telegram] authorized as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
				continue
			}
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

// chatFor returns the chat state, creating it on first use.
func (b *Bot) chatFor(chatID, userID int64) (*chat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.chats[chatID]; ok {
		return c, nil
	}

	client, err := b.deps.NewLive()
	if err != nil {
		return nil, fmt.Errorf("create live client: %w", err)
	}
	c := &chat{
		id:       chatID,
		personas: persona.NewStore(b.deps.Personas),
		operator: operator.NewStore(),
		flags:    ui.NewFlags(),
	}
	for _, p := range b.deps.Custom {
		if err := c.personas.AddCustom(p); err != nil {
			log.Printf("[telegram] skipping persona %s: %v", p.ID, err)
		}
	}
	if len(b.deps.Personas) > 0 {
		c.personas.SetCurrent(b.deps.Personas[0])
	}
	if op, ok := b.deps.Auth.Get(userID); ok {
		c.operator.SetDisplayName(op.DisplayName)
		c.operator.SetApproachNotes(op.ApproachNotes)
	}
	c.flags.SetShowUserConfig(false)
	c.session = session.New(session.Deps{
		Personas: c.personas,
		Operator: c.operator,
		Flags:    c.flags,
		Live:     client,
		Prompt:   prompt.NewBuilder(b.deps.Locale),
		Model:    b.deps.Model,
		Recorder: b.deps.Recorder,
		OwnerID:  fmt.Sprint(chatID),
		OnConnectionLost: func(msg string) {
			b.sendMessage(chatID, msg)
		},
	})
	c.unsub = c.session.Subscribe(func(e transcript.Entry) {
		if e.Role == transcript.RoleCounterpart {
			b.sendMessage(chatID, formatCounterpart(c.personas.Current(), e))
		}
	})
	b.chats[chatID] = c
	log.Printf("[telegram] chat %d opened by %d", chatID, userID)
	return c, nil
}

// Sweep ends sessions idle longer than the configured timeout.
func (b *Bot) Sweep(context.Context) error {
	b.mu.Lock()
	chats := make([]*chat, 0, len(b.chats))
	for _, c := range b.chats {
		chats = append(chats, c)
	}
	b.mu.Unlock()

	now := b.now()
	for _, c := range chats {
		if c.session.EndIfIdle(now, b.deps.IdleTimeout) {
			log.Printf("[telegram] chat %d idle, session ended", c.id)
			b.sendMessage(c.id, "Session ended after a period of inactivity. Send /begin to start again.")
		}
	}
	return nil
}

// Close ends every session.
func (b *Bot) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, c := range b.chats {
		c.unsub()
		c.session.Close()
		delete(b.chats, id)
	}
}

// DailyReport sends the administrator a summary of today's sessions.
func (b *Bot) DailyReport(context.Context) error {
	if b.deps.AdminID == 0 || b.deps.Recorder == nil {
		return nil
	}
	text, err := b.practiceReport()
	if err != nil {
		return err
	}
	b.sendMessage(b.deps.AdminID, text)
	log.Printf("[telegram] daily report sent to admin %d", b.deps.AdminID)
	return nil
}

func (b *Bot) practiceReport() (string, error) {
	records, err := b.deps.Recorder.LoadSessions()
	if err != nil {
		return "", fmt.Errorf("load sessions: %w", err)
	}
	now := b.now()
	if loc := b.deps.Locale.Location; loc != nil {
		now = now.In(loc)
	}
	stats := analytics.AnalyzeDay(records, now)
	return "<pre>" + escape(stats.Summary()) + "</pre>", nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("[telegram] failed to send message: %v", err)
	}
}
