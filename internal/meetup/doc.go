// Package meetup provides a thin client for the Meetup REST API.
//
// The meetup package fetches the GDG Londrina group description and its
// upcoming events, strips HTML markup from the free-text fields and reshapes
// each event into an EventSummary ready for display (location, RSVP counts,
// formatted duration and a Portuguese relative time).
package meetup
