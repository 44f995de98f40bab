package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

// MaxTweetLength is Twitter's post limit in characters
const MaxTweetLength = 280

var londrina = time.FixedZone("BRT", -3*60*60)

// Notifier defines the interface for posting event notifications
type Notifier interface {
	// Notify posts notifications for the given events in order and returns
	// how many were posted, which is less than len(events) only on error
	Notify(ctx context.Context, events []meetup.EventSummary) (int, error)
}

// RelativeTimer renders how far an instant is from now
type RelativeTimer interface {
	TimeUntil(t time.Time) string
}

// formatTweet formats an event as a tweet of at most MaxTweetLength characters
func formatTweet(evt meetup.EventSummary, rt RelativeTimer) string {
	tweet := fmt.Sprintf("📢 %s\n\n", evt.Name)
	tweet += fmt.Sprintf("🗓 %s (%s)\n", evt.When.In(londrina).Format("02/01 às 15:04"), rt.TimeUntil(evt.When))

	if evt.Location.City != "" {
		tweet += fmt.Sprintf("📍 %s - %s\n", evt.Location.Address, evt.Location.City)
	}

	if evt.MaxInvites > 0 {
		tweet += fmt.Sprintf("👥 %d vagas restantes\n", evt.RemainingInvites)
	}

	if evt.URLs.EventURL != "" {
		tweet += fmt.Sprintf("\n🔗 %s\n", evt.URLs.EventURL)
	}
	tweet += "\n#GDGLondrina"

	runes := []rune(tweet)
	if len(runes) > MaxTweetLength {
		tweet = string(runes[:MaxTweetLength-3]) + "..."
	}

	return tweet
}
