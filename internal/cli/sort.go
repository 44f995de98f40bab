package cli

import (
	"sort"
	"strings"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByName  SortOrder = "name"
	SortBySeats SortOrder = "seats"
)

// sortEvents sorts events in place based on the specified sort order
func sortEvents(events []meetup.EventSummary, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].When.Before(events[j].When)
		})
	case SortByName:
		sort.SliceStable(events, func(i, j int) bool {
			if !strings.EqualFold(events[i].Name, events[j].Name) {
				return strings.ToLower(events[i].Name) < strings.ToLower(events[j].Name)
			}
			// If names are equal, sort by date
			return events[i].When.Before(events[j].When)
		})
	case SortBySeats:
		// Most remaining seats first; events without a limit go last
		sort.SliceStable(events, func(i, j int) bool {
			if (events[i].MaxInvites > 0) != (events[j].MaxInvites > 0) {
				return events[i].MaxInvites > 0
			}
			return events[i].RemainingInvites > events[j].RemainingInvites
		})
	}
}

func validSortOrder(s SortOrder) bool {
	return s == SortByDate || s == SortByName || s == SortBySeats
}
