package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
	"github.com/gdg-londrina/gdg-meetup/internal/telegram"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// EventView is an event with its relative time resolved at output time
type EventView struct {
	meetup.EventSummary
	TimeUntil string `json:"timeUntil"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time   `json:"checked_at"`
	Group      string      `json:"group"`
	Events     []EventView `json:"events"`
	EventCount int         `json:"event_count"`
}

// newOutputResult resolves relative times for events through rt
func newOutputResult(group string, events []meetup.EventSummary, rt telegram.RelativeTimer) *OutputResult {
	views := make([]EventView, 0, len(events))
	for _, evt := range events {
		views = append(views, EventView{EventSummary: evt, TimeUntil: rt.TimeUntil(evt.When)})
	}

	return &OutputResult{
		CheckedAt:  time.Now().UTC(),
		Group:      group,
		Events:     views,
		EventCount: len(views),
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "Nenhum evento agendado no momento.")
		return nil
	}

	for _, evt := range result.Events {
		fmt.Fprintf(w, "%s\n", evt.Name)
		fmt.Fprintf(w, "  Quando:  %s (%s)\n", telegram.FormatDate(evt.When), evt.TimeUntil)
		if evt.Duration != "" {
			fmt.Fprintf(w, "  Duração:%s\n", evt.Duration)
		}
		fmt.Fprintf(w, "  Local:   %s - %s\n", evt.Location.Address, evt.Location.City)
		if evt.Location.Complement != "" {
			fmt.Fprintf(w, "           %s\n", evt.Location.Complement)
		}
		fmt.Fprintf(w, "  RSVPs:   %d sim, %d talvez", evt.YesCount, evt.MaybeCount)
		if evt.MaxInvites > 0 {
			fmt.Fprintf(w, ", %d de %d vagas restantes", evt.RemainingInvites, evt.MaxInvites)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Link:    %s\n", evt.URLs.EventURL)

		if verbose {
			fmt.Fprintf(w, "  Arte:    %s\n", evt.URLs.ArtURL)
			if evt.Description != "" {
				fmt.Fprintf(w, "\n%s\n", evt.Description)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %d eventos\n", result.EventCount)

	return nil
}
