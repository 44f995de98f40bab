// Package cli implements the command-line interface for gdg-meetup.
//
// The cli package provides the Cobra-based CLI for showing the GDG Londrina group
// description and upcoming Meetup events (text/JSON), announcing those events on
// Telegram or Twitter, and exporting them as an iCalendar file. It coordinates the
// config, meetup, telegram, notifier and calendar packages.
package cli
