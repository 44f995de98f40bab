package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

// Londrina has been on UTC-3 all year since Brazil dropped daylight saving time
var londrina = time.FixedZone("BRT", -3*60*60)

// RelativeTimer renders how far an instant is from now
type RelativeTimer interface {
	TimeUntil(t time.Time) string
}

// FormatEvent formats a single event as a Telegram HTML message. The
// description is cut so the message stays within MaxMessageLength.
func FormatEvent(evt meetup.EventSummary, rt RelativeTimer) string {
	var head, tail strings.Builder

	head.WriteString(fmt.Sprintf("📢 <b>%s</b>\n\n", escapeText(evt.Name)))
	formatEventDetails(&head, evt, rt)

	if evt.URLs.EventURL != "" {
		tail.WriteString(fmt.Sprintf("\n🔗 <a href=\"%s\">Inscreva-se no Meetup</a>\n", html.EscapeString(evt.URLs.EventURL)))
	}
	tail.WriteString("\n#GDGLondrina")

	msg := head.String()
	if evt.Description != "" {
		// two newlines surround the description
		budget := MaxMessageLength - utf8.RuneCountInString(msg) - utf8.RuneCountInString(tail.String()) - 2
		if desc := escapeTruncated(evt.Description, budget); desc != "" {
			msg += "\n" + desc + "\n"
		}
	}

	return msg + tail.String()
}

// escapeText decodes entities left over from tag stripping, then escapes
// the text for Telegram HTML
func escapeText(s string) string {
	return html.EscapeString(html.UnescapeString(s))
}

// escapeTruncated is escapeText cut to at most limit runes, ending in an
// ellipsis when cut. Entities are never split.
func escapeTruncated(s string, limit int) string {
	escaped := escapeText(s)
	if utf8.RuneCountInString(escaped) <= limit {
		return escaped
	}
	if limit <= 1 {
		return ""
	}

	var b strings.Builder
	n := 0
	for _, r := range html.UnescapeString(s) {
		e := html.EscapeString(string(r))
		size := utf8.RuneCountInString(e)
		if n+size > limit-1 {
			break
		}
		b.WriteString(e)
		n += size
	}

	return strings.TrimRightFunc(b.String(), unicode.IsSpace) + "…"
}

// FormatCaption formats an event as a photo caption, leaving out the
// description so the caption fits Telegram's limit
func FormatCaption(evt meetup.EventSummary, rt RelativeTimer) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("📢 <b>%s</b>\n\n", escapeText(evt.Name)))
	formatEventDetails(&msg, evt, rt)

	if evt.URLs.EventURL != "" {
		msg.WriteString(fmt.Sprintf("\n🔗 <a href=\"%s\">Inscreva-se no Meetup</a>", html.EscapeString(evt.URLs.EventURL)))
	}

	return msg.String()
}

// formatEventDetails writes the date, duration, place and RSVP lines
func formatEventDetails(msg *strings.Builder, evt meetup.EventSummary, rt RelativeTimer) {
	msg.WriteString(fmt.Sprintf("🗓 %s (%s)\n", FormatDate(evt.When), rt.TimeUntil(evt.When)))

	if evt.Duration != "" {
		msg.WriteString(fmt.Sprintf("⏱ Duração:%s\n", evt.Duration))
	}

	place := evt.Location.Address
	if evt.Location.City != "" {
		place = fmt.Sprintf("%s - %s", place, evt.Location.City)
	}
	if place != "" {
		msg.WriteString(fmt.Sprintf("📍 %s\n", escapeText(place)))
	}
	if evt.Location.Complement != "" {
		msg.WriteString(fmt.Sprintf("🧭 %s\n", escapeText(evt.Location.Complement)))
	}

	if evt.MaxInvites > 0 {
		msg.WriteString(fmt.Sprintf("👥 %d confirmados, %d talvez, %d vagas restantes\n",
			evt.YesCount, evt.MaybeCount, evt.RemainingInvites))
	} else {
		msg.WriteString(fmt.Sprintf("👥 %d confirmados, %d talvez\n", evt.YesCount, evt.MaybeCount))
	}
}

// FormatDate renders t in Londrina time, e.g. "25/10/2026 às 19:00"
func FormatDate(t time.Time) string {
	return t.In(londrina).Format("02/01/2006 às 15:04")
}

// FormatDigest formats the group description followed by a line per event
func FormatDigest(description string, events []meetup.EventSummary, rt RelativeTimer) string {
	var msg strings.Builder

	msg.WriteString("🤖 <b>GDG Londrina</b>\n")
	if description != "" {
		msg.WriteString(fmt.Sprintf("<i>%s</i>\n", escapeText(description)))
	}
	msg.WriteString("\n")

	if len(events) == 0 {
		msg.WriteString("Nenhum evento agendado no momento.")
		return msg.String()
	}

	msg.WriteString(fmt.Sprintf("📅 <b>Próximos eventos</b> (%d)\n\n", len(events)))
	for _, evt := range events {
		name := escapeText(evt.Name)
		if evt.URLs.EventURL != "" {
			name = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(evt.URLs.EventURL), name)
		}
		msg.WriteString(fmt.Sprintf("• %s - %s (%s)\n", name, FormatDate(evt.When), rt.TimeUntil(evt.When)))
	}

	msg.WriteString("\n#GDGLondrina")

	return msg.String()
}
