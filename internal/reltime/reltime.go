// Package reltime formats human-readable relative times ("em 3 dias",
// "2 horas atrás") from a locale table.
//
// A Formatter is configured once with its Locale and clock and never touches
// process-wide state, so differently configured formatters can coexist.
// Bucketing follows the thresholds popularized by moment.js: a difference is
// reported in the coarsest unit whose rounded value stays under the unit's
// threshold.
package reltime

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Locale is a relative-time phrase table. Future and Past wrap the phrase
// through a single %s; the plural entries take the count through %d.
type Locale struct {
	Future string
	Past   string

	Seconds  string // s
	SecondsN string // ss
	Minute   string // m
	MinutesN string // mm
	Hour     string // h
	HoursN   string // hh
	Day      string // d
	DaysN    string // dd
	Month    string // M
	MonthsN  string // MM
	Year     string // y
	YearsN   string // yy
}

// Portuguese is the Brazilian Portuguese table used for event announcements
var Portuguese = Locale{
	Future:   "em %s",
	Past:     "%s atrás",
	Seconds:  "alguns segundos",
	SecondsN: "%d segundos",
	Minute:   "um minuto",
	MinutesN: "%d minutos",
	Hour:     "uma hora",
	HoursN:   "%d horas",
	Day:      "um dia",
	DaysN:    "%d dias",
	Month:    "um mes",
	MonthsN:  "%d meses",
	Year:     "um ano",
	YearsN:   "%d ano",
}

// Thresholds for picking a unit
const (
	thresholdSS = 44 // up to this many seconds reads as "a few seconds"
	thresholdS  = 45
	thresholdM  = 45
	thresholdH  = 22
	thresholdD  = 26
	thresholdMo = 11

	msPerSecond = 1000.0
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour

	// Days in a 400 year cycle over its months
	daysPer400Years   = 146097.0
	monthsPer400Years = 4800.0
)

// Formatter renders relative times with a fixed locale and clock
type Formatter struct {
	locale Locale
	now    func() time.Time
}

// New creates a Formatter for locale using the wall clock
func New(locale Locale) *Formatter {
	return &Formatter{locale: locale, now: time.Now}
}

// WithClock returns a copy of f that reads the current instant from now
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	return &Formatter{locale: f.locale, now: now}
}

// FromNow describes t relative to the formatter's current instant
func (f *Formatter) FromNow(t time.Time) string {
	return f.From(t, f.now())
}

// From describes t relative to ref. Instants after ref use the future form;
// everything else, including t == ref, uses the past form.
func (f *Formatter) From(t, ref time.Time) string {
	phrase := f.phrase(t, ref)
	if t.After(ref) {
		return strings.Replace(f.locale.Future, "%s", phrase, 1)
	}
	return strings.Replace(f.locale.Past, "%s", phrase, 1)
}

// phrase returns the unsuffixed phrase for the distance between t and ref
func (f *Formatter) phrase(t, ref time.Time) string {
	months, rem := monthsBetween(ref, t)

	// Whole-month part contributes through its average day count
	monthDays := math.Round(float64(months) * daysPer400Years / monthsPer400Years)
	ms := float64(rem.Milliseconds())

	seconds := round(monthDays*86400 + ms/msPerSecond)
	minutes := round(monthDays*1440 + ms/msPerMinute)
	hours := round(monthDays*24 + ms/msPerHour)
	days := round(monthDays + ms/msPerDay)
	monthsTotal := float64(months) + (ms/msPerDay)*monthsPer400Years/daysPer400Years
	monthsRounded := round(monthsTotal)
	years := round(monthsTotal / 12)

	l := f.locale
	switch {
	case seconds <= thresholdSS:
		return l.Seconds
	case seconds < thresholdS:
		return plural(l.SecondsN, seconds)
	case minutes <= 1:
		return l.Minute
	case minutes < thresholdM:
		return plural(l.MinutesN, minutes)
	case hours <= 1:
		return l.Hour
	case hours < thresholdH:
		return plural(l.HoursN, hours)
	case days <= 1:
		return l.Day
	case days < thresholdD:
		return plural(l.DaysN, days)
	case monthsRounded <= 1:
		return l.Month
	case monthsRounded < thresholdMo:
		return plural(l.MonthsN, monthsRounded)
	case years <= 1:
		return l.Year
	default:
		return plural(l.YearsN, years)
	}
}

// monthsBetween splits the absolute distance between a and b into whole
// calendar months counted from the earlier instant plus a remainder.
func monthsBetween(a, b time.Time) (int, time.Duration) {
	if b.Before(a) {
		a, b = b, a
	}
	b = b.In(a.Location())

	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if addMonths(a, months).After(b) {
		months--
	}
	return months, b.Sub(addMonths(a, months))
}

// addMonths adds n calendar months to t, clamping the day to the target
// month's length.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// round rounds half up; inputs are never negative
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func plural(format string, n int) string {
	return strings.Replace(format, "%d", fmt.Sprint(n), 1)
}
