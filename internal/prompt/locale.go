package prompt

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// regions whose conventional clock is 12-hour
var twelveHour = map[string]bool{
	"US": true, "CA": true, "AU": true, "NZ": true, "IN": true,
	"PH": true, "PK": true, "EG": true, "SA": true, "CO": true,
}

// regions that write the month before the day
var monthFirst = map[string]bool{"US": true, "PH": true, "CA": true}

// Locale decides how dates and times are rendered for the operator. Only the
// region of Tag is consulted, to pick day/month order and the 12- or 24-hour
// clock. Day and month names are always English, since the instruction they
// land in is written in English.
type Locale struct {
	Tag      language.Tag
	Location *time.Location
}

// DefaultLocale is en-US in the process time zone.
var DefaultLocale = Locale{Tag: language.AmericanEnglish, Location: time.Local}

// ParseLocale accepts a BCP 47 tag ("en-GB") and an IANA zone name. An empty
// zone means the process zone.
func ParseLocale(tag, zone string) (Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale %q: %w", tag, err)
	}
	loc := time.Local
	if zone != "" {
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return Locale{}, fmt.Errorf("load time zone %q: %w", zone, err)
		}
	}
	return Locale{Tag: t, Location: loc}, nil
}

func (l Locale) region() string {
	r, _ := l.Tag.Region()
	return r.String()
}

func (l Locale) in(t time.Time) time.Time {
	if l.Location == nil {
		return t
	}
	return t.In(l.Location)
}

// FormatDate renders the long form, e.g. "Friday, October 16, 2026". Names
// are English for every locale.
func (l Locale) FormatDate(t time.Time) string {
	t = l.in(t)
	if monthFirst[l.region()] {
		return t.Format("Monday, January 2, 2006")
	}
	return t.Format("Monday 2 January 2006")
}

// FormatTime renders hours and minutes only.
func (l Locale) FormatTime(t time.Time) string {
	t = l.in(t)
	if twelveHour[l.region()] {
		return t.Format("03:04 PM")
	}
	return t.Format("15:04")
}
