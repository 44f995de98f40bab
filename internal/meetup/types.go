package meetup

import (
	"fmt"
	"time"
)

// Location is where an event happens
type Location struct {
	Address    string `json:"address"`
	Complement string `json:"complement,omitempty"`
	City       string `json:"city"`
}

// URLs holds the links attached to an event
type URLs struct {
	EventURL    string `json:"eventUrl"`
	ArtThumbURL string `json:"artThumbUrl"`
	ArtURL      string `json:"artUrl"`
}

// EventSummary is the display-friendly shape of an upcoming Meetup event
type EventSummary struct {
	Location         Location  `json:"location"`
	MaxInvites       int       `json:"maxInvites"`
	MaybeCount       int       `json:"maybeCount"`
	YesCount         int       `json:"yesCount"`
	RemainingInvites int       `json:"remainingInvites"` // Not clamped, negative when overbooked
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	URLs             URLs      `json:"urls"`
	Duration         string    `json:"duration"`
	When             time.Time `json:"when"`
	DurationMillis   int64     `json:"-"`
}

// Key identifies the event: its URL, or its name and start time when Meetup
// sent no URL
func (e EventSummary) Key() string {
	if e.URLs.EventURL != "" {
		return e.URLs.EventURL
	}
	return fmt.Sprintf("%s|%d", e.Name, e.When.UnixMilli())
}

// group is the subset of the group endpoint response we read
type group struct {
	Description string `json:"description"`
}

// venue is the subset of an event venue we read
type venue struct {
	Address1 string `json:"address_1"`
	City     string `json:"city"`
}

// rawEvent is one element of the /2/events results array
type rawEvent struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	Venue          *venue  `json:"venue"`
	HowToFindUs    string  `json:"how_to_find_us"`
	RSVPLimit      int     `json:"rsvp_limit"`
	MaybeRSVPCount int     `json:"maybe_rsvp_count"`
	YesRSVPCount   int     `json:"yes_rsvp_count"`
	EventURL       string  `json:"event_url"`
	PhotoURL       *string `json:"photo_url"`
	Duration       int64   `json:"duration"`
	Time           int64   `json:"time"`
}

// eventsResponse is the /2/events envelope
type eventsResponse struct {
	Results []rawEvent `json:"results"`
}
