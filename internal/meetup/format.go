package meetup

import (
	"fmt"
	"regexp"
	"strings"
)

// htmlTag matches any tag, including one left unterminated at the end
var htmlTag = regexp.MustCompile(`<[^>]*>?`)

// StripHTML removes every HTML tag from s
func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// FirstLine returns s up to its first newline
func FirstLine(s string) string {
	return strings.Split(s, "\n")[0]
}

// CleanDescription turns the first <br/> into a newline and strips the rest
// of the markup
func CleanDescription(s string) string {
	return StripHTML(strings.Replace(s, "<br/>", "\n", 1))
}

// HighResURL derives the full-size photo URL from a thumbnail URL.
// Only the first "global" is replaced; the result is not validated.
func HighResURL(photoURL string) string {
	return strings.Replace(photoURL, "global", "highres", 1)
}

// DurationString formats a duration in milliseconds as " H horas e M minutos".
// The hours segment is dropped when zero, the minutes segment (with its "e")
// when zero, so 45 minutes yields " e 45 minutos" and zero yields "".
func DurationString(millis int64) string {
	var s string

	hours := millis / 3600000
	if hours > 0 {
		s = fmt.Sprintf(" %d horas", hours)
	}

	minutes := (millis / 60000) % 60
	if minutes > 0 {
		s += fmt.Sprintf(" e %d minutos", minutes)
	}

	return s
}
