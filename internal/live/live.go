// Package live is the boundary to the realtime conversation service that
// plays the counterpart.
package live

import (
	"context"
	"errors"

	"session-ready/internal/persona"
	"session-ready/internal/transcript"
)

type Modality string

const (
	ModalityAudio Modality = "AUDIO"
	ModalityText  Modality = "TEXT"
)

var (
	ErrNotConnected     = errors.New("live: not connected")
	ErrAudioUnsupported = errors.New("live: provider does not accept audio")
)

// Config is everything a connection needs: the model, the rendered system
// instruction and exactly one voice.
type Config struct {
	Model             string
	SystemInstruction string
	Voice             persona.VocalProfile
	Modalities        []Modality
}

func NewConfig(model, instruction string, voice persona.VocalProfile) Config {
	return Config{
		Model:             model,
		SystemInstruction: instruction,
		Voice:             voice,
		Modalities:        []Modality{ModalityAudio},
	}
}

// Client is a connection to the live service. Connect tags every event it
// later produces with gen. Events returns the same channel for the lifetime
// of the client.
type Client interface {
	Connect(ctx context.Context, cfg Config, gen transcript.Generation) error
	Disconnect() error
	SendText(ctx context.Context, text string, endOfTurn bool) error
	SendRealtimeAudio(ctx context.Context, chunk AudioChunk) error
	Events() <-chan transcript.Event
}

const eventBuffer = 256
