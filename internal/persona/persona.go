package persona

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrIncomplete   = errors.New("persona is missing a name or personality")
	ErrNotFound     = errors.New("persona not found")
	ErrDuplicateID  = errors.New("persona id already in use")
	ErrUnknownVoice = errors.New("unknown voice")
)

// ResolutionError reports a lookup by an id that matches no persona.
type ResolutionError struct {
	ID string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve persona %q: %v", e.ID, ErrNotFound)
}

func (e *ResolutionError) Unwrap() error { return ErrNotFound }

// VocalProfile is a prebuilt voice of the live service.
type VocalProfile string

const (
	VoiceAoede  VocalProfile = "Aoede"
	VoiceCharon VocalProfile = "Charon"
	VoiceFenrir VocalProfile = "Fenrir"
	VoiceKore   VocalProfile = "Kore"
	VoiceLeda   VocalProfile = "Leda"
	VoiceOrus   VocalProfile = "Orus"
	VoicePuck   VocalProfile = "Puck"
	VoiceZephyr VocalProfile = "Zephyr"
)

var vocalProfiles = []VocalProfile{
	VoiceAoede, VoiceCharon, VoiceFenrir, VoiceKore,
	VoiceLeda, VoiceOrus, VoicePuck, VoiceZephyr,
}

// VocalProfiles returns the voices a persona may use.
func VocalProfiles() []VocalProfile {
	return append([]VocalProfile(nil), vocalProfiles...)
}

func (v VocalProfile) Valid() bool {
	for _, p := range vocalProfiles {
		if p == v {
			return true
		}
	}
	return false
}

var visualCues = []string{
	"#4285f4", // blue
	"#ea4335", // red
	"#fbbc04", // yellow
	"#34a853", // green
	"#fa7b17", // orange
	"#f538a0", // pink
	"#a142f4", // purple
	"#24c1e0", // teal
}

// VisualCues returns the colour tokens used for non-photographic avatars.
func VisualCues() []string {
	return append([]string(nil), visualCues...)
}

// Room selects the backdrop a session is rendered in.
type Room string

const (
	RoomModern  Room = "modern"
	RoomOrganic Room = "organic"
	RoomDefault Room = "default"

	DefaultRoom = RoomOrganic
)

func (r Room) Valid() bool {
	switch r {
	case RoomModern, RoomOrganic, RoomDefault:
		return true
	}
	return false
}

// Persona is a simulated therapy client.
type Persona struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Personality     string       `json:"personality" yaml:"personality"`
	VisualCue       string       `json:"visual_cue" yaml:"visual_cue"`
	Voice           VocalProfile `json:"voice" yaml:"voice"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	DetailedProfile string       `json:"detailed_profile,omitempty" yaml:"detailed_profile,omitempty"`
	InitialGreeting string       `json:"initial_greeting,omitempty" yaml:"initial_greeting,omitempty"`
	Avatar          string       `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Room            Room         `json:"room,omitempty" yaml:"room,omitempty"`
}

// Usable reports whether the persona can be made the active one.
func (p Persona) Usable() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Personality) == "" {
		return fmt.Errorf("%s: %w", p.ID, ErrIncomplete)
	}
	return nil
}

func (p Persona) RoomOrDefault() Room {
	if p.Room.Valid() {
		return p.Room
	}
	return DefaultRoom
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name            *string       `json:"name,omitempty"`
	Personality     *string       `json:"personality,omitempty"`
	VisualCue       *string       `json:"visual_cue,omitempty"`
	Voice           *VocalProfile `json:"voice,omitempty"`
	Description     *string       `json:"description,omitempty"`
	DetailedProfile *string       `json:"detailed_profile,omitempty"`
	InitialGreeting *string       `json:"initial_greeting,omitempty"`
	Avatar          *string       `json:"avatar,omitempty"`
	Room            *Room         `json:"room,omitempty"`
}

// Apply returns a copy of p with the non-nil fields of patch applied.
func (p Persona) Apply(patch Patch) Persona {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Personality != nil {
		p.Personality = *patch.Personality
	}
	if patch.VisualCue != nil {
		p.VisualCue = *patch.VisualCue
	}
	if patch.Voice != nil {
		p.Voice = *patch.Voice
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.DetailedProfile != nil {
		p.DetailedProfile = *patch.DetailedProfile
	}
	if patch.InitialGreeting != nil {
		p.InitialGreeting = *patch.InitialGreeting
	}
	if patch.Avatar != nil {
		p.Avatar = *patch.Avatar
	}
	if patch.Room != nil {
		p.Room = *patch.Room
	}
	return p
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

func Voice(v VocalProfile) *VocalProfile { return &v }
