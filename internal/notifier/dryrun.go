package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct {
	out io.Writer
	rt  RelativeTimer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer, rt RelativeTimer) *DryRunNotifier {
	return &DryRunNotifier{out: out, rt: rt}
}

// Notify prints the tweets that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, events []meetup.EventSummary) (int, error) {
	for i, evt := range events {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		tweet := formatTweet(evt, n.rt)
		fmt.Fprintf(n.out, "--- Tweet %d/%d ---\n", i+1, len(events))
		fmt.Fprintln(n.out, tweet)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", len([]rune(tweet)))
	}
	return len(events), nil
}
