package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"session-ready/internal/auth"
	"session-ready/internal/operator"
	"session-ready/internal/pending"
	"session-ready/internal/persona"
	"session-ready/internal/session"
	"session-ready/internal/storage"
	"session-ready/internal/transcript"
)

const helpText = `<b>Practice commands</b>
/personas - list clients to practise with
/persona &lt;id&gt; - switch client
/search &lt;text&gt; - find a client
/new &lt;name&gt; | &lt;personality&gt; - create a client
/edit &lt;field&gt; &lt;value&gt; - edit the current client
/voices - available voices
/name &lt;name&gt; - your name
/approach &lt;text&gt; - your approach or specialization
/begin - start a session
/end - end the session
/pause, /resume - pause or resume
/transcript - show the transcript so far
/history - your recent sessions`

func escape(s string) string { return html.EscapeString(s) }

func quote(s string) string { return "<i>" + escape(s) + "</i>" }

func formatCounterpart(p persona.Persona, e transcript.Entry) string {
	return fmt.Sprintf("🗣 <b>%s</b>: %s", escape(p.Name), escape(e.Content))
}

func formatPersonas(title string, ps []persona.Persona) string {
	if len(ps) == 0 {
		return title + ": none."
	}
	var sb strings.Builder
	sb.WriteString("<b>" + title + "</b>\n")
	for _, p := range ps {
		fmt.Fprintf(&sb, "\n• <b>%s</b> <code>%s</code> (%s)", escape(p.Name), escape(p.ID), p.Voice)
		if p.Description != "" {
			sb.WriteString("\n  " + escape(p.Description))
		}
	}
	return sb.String()
}

func formatVoices(vs []persona.VocalProfile) string {
	var sb strings.Builder
	sb.WriteString("<b>Voices</b>\n")
	for _, v := range vs {
		opt, _ := persona.LookupVoice(string(v))
		fmt.Fprintf(&sb, "\n• %s: %s, %s", v, escape(opt.Tone), escape(opt.Gender))
	}
	return sb.String()
}

func formatProfile(p operator.Profile) string {
	name := p.DisplayName
	if name == "" {
		name = "not set"
	}
	approach := p.ApproachNotes
	if approach == "" {
		approach = "not set"
	}
	return fmt.Sprintf("Profile saved.\nName: %s\nApproach: %s", escape(name), escape(approach))
}

func formatTranscript(st session.Status) string {
	if len(st.Transcript.Entries) == 0 {
		return "The transcript is empty."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>Transcript with %s</b>\n", escape(st.Persona.Name))
	for _, e := range st.Transcript.Entries {
		who := "You"
		if e.Role == transcript.RoleCounterpart {
			who = st.Persona.Name
		}
		fmt.Fprintf(&sb, "\n<i>%s</i> <b>%s</b>: %s", e.Timestamp.Format("15:04"), escape(who), escape(e.Content))
	}
	if st.Transcript.LastDeliveryFailed {
		sb.WriteString("\n\n⚠️ The last message was not delivered.")
	}
	return sb.String()
}

func formatHistory(records []storage.Record, limit int) string {
	if len(records) == 0 {
		return "No finished sessions yet."
	}
	if len(records) > limit {
		records = records[:limit]
	}
	var sb strings.Builder
	sb.WriteString("<b>Recent sessions</b>\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "\n• %s with %s, %d entries, %s",
			r.EndedAt.Format("2006-01-02 15:04"), escape(r.PersonaName), len(r.Entries),
			r.EndedAt.Sub(r.StartedAt).Round(time.Second))
	}
	return sb.String()
}

func formatOperators(ops []auth.Operator, reqs []pending.Request) string {
	var sb strings.Builder
	if len(ops) == 0 {
		sb.WriteString("No operators.")
	} else {
		sb.WriteString("<b>Operators</b>\n")
		for _, op := range ops {
			fmt.Fprintf(&sb, "\n• <code>%d</code> %s", op.ID, escape(op.DisplayName))
		}
	}
	if len(reqs) > 0 {
		sb.WriteString("\n\n<b>Waiting for approval</b>\n")
		for _, r := range reqs {
			fmt.Fprintf(&sb, "\n• <code>%d</code> @%s", r.UserID, escape(r.Username))
		}
	}
	return sb.String()
}

func formatAccessRequest(r pending.Request) string {
	who := escape(r.DisplayName)
	if r.Username != "" {
		who += " @" + escape(r.Username)
	}
	return fmt.Sprintf("🔔 Access request from %s (<code>%d</code>).\n/allow %d or /revoke %d", strings.TrimSpace(who), r.UserID, r.UserID, r.UserID)
}
