package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/oauth2"

	"session-ready/internal/transcript"
)

const (
	setupTimeout = 15 * time.Second
	// inline audio frames are far above the library's 32KiB default
	readLimit = 16 << 20
)

// Gemini speaks the bidirectional Live API over a WebSocket.
type Gemini struct {
	endpoint string
	apiKey   string
	tokens   oauth2.TokenSource

	connectMu sync.Mutex

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc

	events chan transcript.Event
}

func NewGemini(endpoint, apiKey string) *Gemini {
	return &Gemini{
		endpoint: endpoint,
		apiKey:   apiKey,
		events:   make(chan transcript.Event, eventBuffer),
	}
}

// NewGeminiWithTokenSource authenticates with OAuth access tokens instead of
// an API key.
func NewGeminiWithTokenSource(endpoint string, ts oauth2.TokenSource) *Gemini {
	g := NewGemini(endpoint, "")
	g.tokens = ts
	return g
}

func (g *Gemini) Events() <-chan transcript.Event { return g.events }

// Connect replaces any existing connection, performs the setup handshake and
// starts reading server messages tagged with gen.
func (g *Gemini) Connect(ctx context.Context, cfg Config, gen transcript.Generation) error {
	g.connectMu.Lock()
	defer g.connectMu.Unlock()

	_ = g.Disconnect()

	target, err := g.dialURL()
	if err != nil {
		return err
	}
	opts, err := g.dialOptions()
	if err != nil {
		return err
	}
	conn, _, err := websocket.Dial(ctx, target, opts)
	if err != nil {
		return fmt.Errorf("dial live service: %w", err)
	}
	conn.SetReadLimit(readLimit)

	if err := writeMessage(ctx, conn, clientMessage{Setup: newSetup(cfg)}); err != nil {
		conn.CloseNow()
		return fmt.Errorf("send setup: %w", err)
	}
	if err := awaitSetupComplete(ctx, conn); err != nil {
		conn.CloseNow()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	g.conn = conn
	g.cancel = cancel
	g.mu.Unlock()

	go g.readLoop(loopCtx, conn, gen)
	log.Printf("[live] connected model=%s voice=%s gen=%d", cfg.Model, cfg.Voice, gen)
	return nil
}

func (g *Gemini) dialURL() (string, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse live endpoint: %w", err)
	}
	if g.apiKey != "" {
		q := u.Query()
		q.Set("key", g.apiKey)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (g *Gemini) dialOptions() (*websocket.DialOptions, error) {
	if g.tokens == nil {
		return nil, nil
	}
	tok, err := g.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("fetch access token: %w", err)
	}
	return &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": {tok.Type() + " " + tok.AccessToken}},
	}, nil
}

// Disconnect drops the connection without waiting for a close handshake.
func (g *Gemini) Disconnect() error {
	g.mu.Lock()
	conn, cancel := g.conn, g.cancel
	g.conn, g.cancel = nil, nil
	g.mu.Unlock()

	if conn == nil {
		return nil
	}
	cancel()
	_ = conn.CloseNow()
	return nil
}

func (g *Gemini) SendText(ctx context.Context, text string, endOfTurn bool) error {
	conn := g.current()
	if conn == nil {
		return ErrNotConnected
	}
	msg := clientMessage{ClientContent: &wireClientContent{
		Turns:        []wireContent{{Role: "user", Parts: []wirePart{{Text: text}}}},
		TurnComplete: endOfTurn,
	}}
	if err := writeMessage(ctx, conn, msg); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func (g *Gemini) SendRealtimeAudio(ctx context.Context, chunk AudioChunk) error {
	conn := g.current()
	if conn == nil {
		return ErrNotConnected
	}
	if chunk.MIMEType == "" {
		chunk.MIMEType = PCM16k
	}
	msg := clientMessage{RealtimeInput: &wireRealtimeInput{MediaChunks: []AudioChunk{chunk}}}
	if err := writeMessage(ctx, conn, msg); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}

func (g *Gemini) current() *websocket.Conn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn
}

func (g *Gemini) readLoop(ctx context.Context, conn *websocket.Conn, gen transcript.Generation) {
	var speaking bool
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			cancel := g.release(conn)
			if cancel == nil {
				return
			}
			log.Printf("[live] connection lost gen=%d: %v", gen, err)
			g.emit(ctx, transcript.Closed{Gen: gen, Reason: closeReason(err)})
			cancel()
			return
		}
		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.emit(ctx, transcript.Log{Gen: gen, Kind: "decode", Message: err.Error()})
			continue
		}
		for _, ev := range translate(gen, msg, &speaking) {
			if !g.emit(ctx, ev) {
				return
			}
		}
	}
}

// release forgets conn if it is still the current connection and returns its
// cancel func, or nil when a Disconnect or a newer Connect got there first.
func (g *Gemini) release(conn *websocket.Conn) context.CancelFunc {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn != conn {
		return nil
	}
	cancel := g.cancel
	g.conn, g.cancel = nil, nil
	_ = conn.CloseNow()
	return cancel
}

func closeReason(err error) string {
	var ce websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Reason != "" {
			return ce.Reason
		}
		return ce.Code.String()
	}
	return err.Error()
}

func (g *Gemini) emit(ctx context.Context, ev transcript.Event) bool {
	select {
	case g.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// translate maps one server message to transcript events. speaking tracks
// whether an audio turn is in progress so AudioStarted fires once per turn.
func translate(gen transcript.Generation, msg serverMessage, speaking *bool) []transcript.Event {
	if msg.ToolCall != nil {
		return []transcript.Event{transcript.Log{Gen: gen, Kind: "toolCall", Message: string(msg.ToolCall)}}
	}
	sc := msg.ServerContent
	if sc == nil {
		return nil
	}
	var out []transcript.Event
	if sc.Interrupted {
		*speaking = false
		out = append(out, transcript.Interrupted{Gen: gen})
	}
	if sc.ModelTurn != nil && len(sc.ModelTurn.Parts) > 0 {
		parts := make([]transcript.Part, 0, len(sc.ModelTurn.Parts))
		for _, p := range sc.ModelTurn.Parts {
			if p.InlineData != nil {
				if !*speaking && strings.HasPrefix(p.InlineData.MIMEType, "audio/") {
					*speaking = true
					out = append(out, transcript.AudioStarted{Gen: gen})
				}
				parts = append(parts, transcript.Part{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data})
				continue
			}
			parts = append(parts, transcript.Part{Text: p.Text})
		}
		out = append(out, transcript.Content{Gen: gen, Parts: parts})
	}
	if sc.TurnComplete {
		*speaking = false
		out = append(out, transcript.TurnComplete{Gen: gen})
	}
	return out
}

func writeMessage(ctx context.Context, conn *websocket.Conn, msg clientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func awaitSetupComplete(ctx context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("await setup: %w", err)
		}
		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("decode setup reply: %w", err)
		}
		if msg.SetupComplete != nil {
			return nil
		}
	}
}
