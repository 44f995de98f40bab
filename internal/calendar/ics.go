// Package calendar exports upcoming events as an iCalendar (.ics) feed.
package calendar

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

const (
	ProductID = "-//GDG Londrina//gdg-meetup//PT"

	// Used as the event length when Meetup reports no duration
	defaultDuration = 2 * time.Hour
)

// ErrNoEvents is returned when there is nothing to export; a VCALENDAR needs
// at least one component
var ErrNoEvents = errors.New("no events to export")

// Encode writes events as a single VCALENDAR with one VEVENT each.
// now is stamped as DTSTAMP on every event.
func Encode(w io.Writer, events []meetup.EventSummary, now time.Time) error {
	if len(events) == 0 {
		return ErrNoEvents
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	for i := range events {
		cal.Children = append(cal.Children, toVEvent(&events[i], now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

// toVEvent converts an EventSummary into a VEVENT component
func toVEvent(evt *meetup.EventSummary, now time.Time) *ical.Component {
	start := evt.When.UTC()
	length := time.Duration(evt.DurationMillis) * time.Millisecond
	if length <= 0 {
		length = defaultDuration
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, eventUID(evt))
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(length))
	ve.Props.SetText(ical.PropSummary, html.UnescapeString(evt.Name))
	ve.Props.SetText(ical.PropStatus, "CONFIRMED")

	if evt.Description != "" {
		ve.Props.SetText(ical.PropDescription, html.UnescapeString(evt.Description))
	}
	if loc := location(evt.Location); loc != "" {
		ve.Props.SetText(ical.PropLocation, html.UnescapeString(loc))
	}
	if u, err := url.Parse(evt.URLs.EventURL); err == nil && evt.URLs.EventURL != "" {
		ve.Props.SetURI(ical.PropURL, u)
	}

	return ve
}

// eventUID derives a stable UID from the event page, falling back to name and start
func eventUID(evt *meetup.EventSummary) string {
	return fmt.Sprintf("%x@meetup.com", sha1.Sum([]byte(evt.Key())))
}

func location(l meetup.Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Address, l.Complement, l.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
