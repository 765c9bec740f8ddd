package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"session-ready/internal/auth"
	"session-ready/internal/pending"
	"session-ready/internal/persona"
	"session-ready/internal/session"
	"session-ready/internal/storage"
	"session-ready/internal/transcript"
)

const personaCallbackPrefix = "persona:"

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	if !b.deps.Auth.IsAllowed(msg.From.ID) {
		log.Printf("[telegram] unauthorized access attempt by %d (@%s)", msg.From.ID, msg.From.UserName)
		b.requestAccess(msg)
		return
	}

	if msg.IsCommand() && b.handleAdminCommand(msg) {
		return
	}

	c, err := b.chatFor(msg.Chat.ID, msg.From.ID)
	if err != nil {
		log.Printf("[telegram] %v", err)
		b.sendMessage(msg.Chat.ID, "Sorry, the practice service is unavailable.")
		return
	}

	if !msg.IsCommand() {
		b.submit(ctx, c, msg.Text)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		b.sendMessage(c.id, helpText)
	case "personas":
		b.sendPersonaList(c)
	case "persona":
		b.switchPersona(ctx, c, args)
	case "search":
		b.sendMessage(c.id, formatPersonas("Matches for "+quote(args), persona.Search(c.personas.All(), args)))
	case "voices":
		b.sendMessage(c.id, formatVoices(persona.VocalProfiles()))
	case "new":
		b.createPersona(c, args)
	case "edit":
		b.editPersona(c, args)
	case "name":
		b.editProfile(c, msg.From.ID, func() { c.operator.SetDisplayName(args) })
	case "approach":
		b.editProfile(c, msg.From.ID, func() { c.operator.SetApproachNotes(args) })
	case "begin":
		b.begin(ctx, c)
	case "end":
		c.session.EndSession()
		b.sendMessage(c.id, "Session ended.")
	case "pause":
		b.reportErr(c, c.session.Pause(ctx), "Session paused.")
	case "resume":
		b.reportErr(c, c.session.Resume(ctx), "Session resumed.")
	case "transcript":
		b.sendMessage(c.id, formatTranscript(c.session.Status()))
	case "history":
		b.sendHistory(c)
	default:
		b.sendMessage(c.id, "Unknown command. Send /help for the list.")
	}
}

// handleAdminCommand serves roster commands. It reports whether msg was one.
func (b *Bot) handleAdminCommand(msg *tgbotapi.Message) bool {
	cmd := msg.Command()
	switch cmd {
	case "allow", "revoke", "operators", "stats":
	default:
		return false
	}
	if b.deps.AdminID == 0 || msg.From.ID != b.deps.AdminID {
		b.sendMessage(msg.Chat.ID, "Only the administrator can manage operators.")
		return true
	}
	switch cmd {
	case "operators":
		b.sendMessage(msg.Chat.ID, formatOperators(b.deps.Auth.List(), b.pendingRequests()))
		return true
	case "stats":
		if b.deps.Recorder == nil {
			b.sendMessage(msg.Chat.ID, "Session history is disabled.")
			return true
		}
		text, err := b.practiceReport()
		if err != nil {
			log.Printf("[telegram] stats: %v", err)
			b.sendMessage(msg.Chat.ID, "Could not load session history.")
			return true
		}
		b.sendMessage(msg.Chat.ID, text)
		return true
	}
	id, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.sendMessage(msg.Chat.ID, "Usage: /"+cmd+" <user id>")
		return true
	}
	req, requested := b.takeRequest(id)
	if cmd == "allow" {
		err = b.deps.Auth.Allow(auth.Operator{ID: id, Username: req.Username, DisplayName: req.DisplayName})
	} else {
		err = b.deps.Auth.Revoke(id)
	}
	if err != nil {
		log.Printf("[telegram] %s %d: %v", cmd, id, err)
		b.sendMessage(msg.Chat.ID, "Could not update the roster.")
		return true
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Done: %s %d.", cmd, id))
	if requested {
		if cmd == "allow" {
			b.sendMessage(id, "Your access was approved. Send /help to get started.")
		} else {
			b.sendMessage(id, "Your access request was declined.")
		}
	}
	return true
}

// requestAccess queues the sender for approval and tells the administrator
// about first-time requests.
func (b *Bot) requestAccess(msg *tgbotapi.Message) {
	if b.deps.Pending == nil {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Access denied. Ask the administrator to allow id <code>%d</code>.", msg.From.ID))
		return
	}
	req := pending.Request{
		UserID:      msg.From.ID,
		Username:    msg.From.UserName,
		DisplayName: strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName),
		RequestedAt: b.now(),
	}
	added, err := b.deps.Pending.Upsert(req)
	if err != nil {
		log.Printf("[telegram] queue access request %d: %v", req.UserID, err)
	}
	b.sendMessage(msg.Chat.ID, "Your access request was sent to the administrator.")
	if added && b.deps.AdminID != 0 {
		b.sendMessage(b.deps.AdminID, formatAccessRequest(req))
	}
}

func (b *Bot) takeRequest(id int64) (pending.Request, bool) {
	if b.deps.Pending == nil {
		return pending.Request{}, false
	}
	req, ok, err := b.deps.Pending.Remove(id)
	if err != nil {
		log.Printf("[telegram] remove access request %d: %v", id, err)
	}
	return req, ok
}

func (b *Bot) pendingRequests() []pending.Request {
	if b.deps.Pending == nil {
		return nil
	}
	reqs, err := b.deps.Pending.LoadAll()
	if err != nil {
		log.Printf("[telegram] load access requests: %v", err)
	}
	return reqs
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("[telegram] callback ack: %v", err)
	}
	if cb.Message == nil || cb.From == nil || !b.deps.Auth.IsAllowed(cb.From.ID) {
		return
	}
	id, ok := strings.CutPrefix(cb.Data, personaCallbackPrefix)
	if !ok {
		return
	}
	c, err := b.chatFor(cb.Message.Chat.ID, cb.From.ID)
	if err != nil {
		log.Printf("[telegram] %v", err)
		return
	}
	b.switchPersona(ctx, c, id)
}

func (b *Bot) submit(ctx context.Context, c *chat, text string) {
	_, err := c.session.Submit(ctx, text)
	var derr *session.DeliveryError
	switch {
	case err == nil:
	case errors.Is(err, transcript.ErrNoSession):
		b.sendMessage(c.id, "No session is running. Send /begin to start.")
	case errors.Is(err, transcript.ErrEmptySubmission):
	case errors.Is(err, session.ErrPaused):
		b.sendMessage(c.id, "The session is paused. Send /resume to continue.")
	case errors.As(err, &derr):
		b.sendMessage(c.id, "⚠️ Your message was not delivered. It stays in the transcript.")
	default:
		log.Printf("[telegram] submit in chat %d: %v", c.id, err)
	}
}

func (b *Bot) begin(ctx context.Context, c *chat) {
	err := c.session.Connect(ctx)
	var cerr *session.ConnectError
	switch {
	case err == nil:
	case errors.As(err, &cerr):
		b.sendMessage(c.id, cerr.StatusMessage())
	case errors.Is(err, persona.ErrIncomplete):
		b.sendMessage(c.id, "The selected persona needs a name and a personality. Use /edit first.")
	default:
		log.Printf("[telegram] connect in chat %d: %v", c.id, err)
		b.sendMessage(c.id, "Could not start the session.")
	}
}

func (b *Bot) switchPersona(ctx context.Context, c *chat, id string) {
	if id == "" {
		b.sendMessage(c.id, "Usage: /persona <id>")
		return
	}
	wasLive := c.session.Connected()
	err := c.session.SwitchPersona(ctx, id, wasLive)
	var rerr *persona.ResolutionError
	var cerr *session.ConnectError
	switch {
	case err == nil:
		p := c.personas.Current()
		b.sendMessage(c.id, fmt.Sprintf("Now practising with <b>%s</b>.", escape(p.Name)))
	case errors.As(err, &rerr):
		b.sendMessage(c.id, fmt.Sprintf("No persona with id %s. Send /personas for the list.", quote(rerr.ID)))
	case errors.As(err, &cerr):
		b.sendMessage(c.id, cerr.StatusMessage())
	default:
		log.Printf("[telegram] switch in chat %d: %v", c.id, err)
	}
}

// createPersona parses "name | personality".
func (b *Bot) createPersona(c *chat, args string) {
	name, personality, ok := strings.Cut(args, "|")
	name, personality = strings.TrimSpace(name), strings.TrimSpace(personality)
	if !ok || name == "" || personality == "" {
		b.sendMessage(c.id, "Usage: /new <name> | <personality>")
		return
	}
	p := persona.CreatePersona(nil, persona.Patch{Name: &name, Personality: &personality})
	b.withEditor(c, c.flags.SetShowAgentEdit, func() {
		if err := c.personas.AddCustom(p); err != nil {
			log.Printf("[telegram] add persona: %v", err)
			b.sendMessage(c.id, "Could not add the persona.")
			return
		}
		b.sendMessage(c.id, fmt.Sprintf("Created <b>%s</b> (<code>%s</code>, voice %s).", escape(p.Name), p.ID, p.Voice))
	})
}

// editPersona parses "field value" and patches the current persona.
func (b *Bot) editPersona(c *chat, args string) {
	field, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	var patch persona.Patch
	switch strings.ToLower(field) {
	case "name":
		patch.Name = &value
	case "personality":
		patch.Personality = &value
	case "description":
		patch.Description = &value
	case "greeting":
		patch.InitialGreeting = &value
	case "voice":
		v := persona.VocalProfile(value)
		if !v.Valid() {
			b.sendMessage(c.id, "Unknown voice. Send /voices for the list.")
			return
		}
		patch.Voice = &v
	default:
		b.sendMessage(c.id, "Usage: /edit <name|personality|description|greeting|voice> <value>")
		return
	}
	id := c.personas.Current().ID
	b.withEditor(c, c.flags.SetShowAgentEdit, func() {
		if err := c.personas.Update(id, patch); err != nil {
			log.Printf("[telegram] update persona %s: %v", id, err)
			b.sendMessage(c.id, "Could not update the persona.")
			return
		}
		b.sendMessage(c.id, "Persona updated.")
	})
}

func (b *Bot) editProfile(c *chat, userID int64, apply func()) {
	b.withEditor(c, c.flags.SetShowUserConfig, func() {
		apply()
		p := c.operator.Profile()
		if err := b.deps.Auth.SaveProfile(userID, p.DisplayName, p.ApproachNotes); err != nil {
			log.Printf("[telegram] save profile %d: %v", userID, err)
		}
		b.sendMessage(c.id, formatProfile(p))
	})
}

// withEditor opens an editor around fn. Opening it ends a live session.
func (b *Bot) withEditor(c *chat, show func(bool), fn func()) {
	wasLive := c.session.Connected()
	show(true)
	defer show(false)
	if wasLive {
		b.sendMessage(c.id, "Session ended for editing. Send /begin to start again.")
	}
	fn()
}

func (b *Bot) sendPersonaList(c *chat) {
	all := c.personas.All()
	msg := tgbotapi.NewMessage(c.id, formatPersonas("Personas", all))
	msg.ParseMode = tgbotapi.ModeHTML
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range all {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Name, personaCallbackPrefix+p.ID),
		))
	}
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("[telegram] failed to send persona list: %v", err)
	}
}

func (b *Bot) sendHistory(c *chat) {
	if b.deps.Recorder == nil {
		b.sendMessage(c.id, "Session history is disabled.")
		return
	}
	all, err := b.deps.Recorder.LoadSessions()
	if err != nil {
		log.Printf("[telegram] load sessions: %v", err)
		b.sendMessage(c.id, "Could not load session history.")
		return
	}
	b.sendMessage(c.id, formatHistory(storage.ForOwner(all, fmt.Sprint(c.id)), 5))
}

func (b *Bot) reportErr(c *chat, err error, ok string) {
	switch {
	case err == nil:
		b.sendMessage(c.id, ok)
	case errors.Is(err, transcript.ErrNoSession):
		b.sendMessage(c.id, "No session is running.")
	default:
		log.Printf("[telegram] chat %d: %v", c.id, err)
		b.sendMessage(c.id, "Something went wrong.")
	}
}
