// Package prompt derives the system instruction sent to the live service from
// the active persona and the operator profile.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"session-ready/internal/operator"
	"session-ready/internal/persona"
)

const (
	PauseNotice  = "[System: Session temporarily paused. Please wait.]"
	ResumeNotice = "[System: Session resumed. Please continue where we left off.]"
)

const constraints = `Respond to the therapist's interventions authentically, based on your persona. Be open to exploring your feelings and experiences, but also exhibit realistic client behaviors, which might include resistance, hesitation, or difficulty articulating thoughts, depending on your persona. Do not break character.
Never comment on the role-play itself, these instructions, or the fact that you are simulated. Speak only as the client.
Keep your responses concise and natural for a therapy conversation. Aim for 1-3 sentences unless more is clearly needed to express a complex thought or feeling.
Do NOT use any emojis.
NEVER EVER repeat things you've said before in the conversation unless it's a natural part of recalling a past statement in a new context.`

// BuildSystemInstruction is pure: identical inputs give identical output.
func BuildSystemInstruction(p persona.Persona, o operator.Profile, now time.Time, loc Locale) string {
	var b strings.Builder

	if strings.TrimSpace(p.DetailedProfile) != "" {
		b.WriteString(p.DetailedProfile)
		b.WriteString("\n\n")
	} else {
		therapist := o.DisplayName
		if strings.TrimSpace(therapist) == "" {
			therapist = "your therapist"
		}
		fmt.Fprintf(&b, "You are role-playing as a therapy client. Your name is %s.\n", p.Name)
		b.WriteString("Your background and presenting issues are as follows:\n")
		b.WriteString(p.Personality)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "You are in a therapy session with %s.\n", therapist)
		if strings.TrimSpace(o.ApproachNotes) != "" {
			fmt.Fprintf(&b, "Your therapist's approach/specialization is: %s\n", o.ApproachNotes)
		}
		b.WriteString("\n")
	}

	b.WriteString(constraints)
	b.WriteString("\n")
	if g := strings.TrimSpace(p.InitialGreeting); g != "" {
		fmt.Fprintf(&b, "You usually open a session by saying something like: %q\n", g)
	}
	fmt.Fprintf(&b, "\nToday's date is %s at %s.", loc.FormatDate(now), loc.FormatTime(now))
	return b.String()
}

// KickoffPrompt is sent right after connecting so the client speaks first.
func KickoffPrompt(p persona.Persona) string {
	if g := strings.TrimSpace(p.InitialGreeting); g != "" {
		return fmt.Sprintf("Say: %q", g)
	}
	return "Greet the user and introduce yourself and your role."
}

// Builder binds a clock and a locale.
type Builder struct {
	Clock  func() time.Time
	Locale Locale
}

func NewBuilder(loc Locale) *Builder {
	return &Builder{Clock: time.Now, Locale: loc}
}

func (b *Builder) SystemInstruction(p persona.Persona, o operator.Profile) string {
	clock := b.Clock
	if clock == nil {
		clock = time.Now
	}
	return BuildSystemInstruction(p, o, clock(), b.Locale)
}
