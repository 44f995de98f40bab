package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

// TweetInterval is the minimum spacing between two posts
const TweetInterval = 2 * time.Second

// statusPoster is the part of the Twitter statuses service we use
type statusPoster interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterCredentials are the OAuth1 user credentials for posting
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// TwitterNotifier posts events to Twitter
type TwitterNotifier struct {
	statuses statusPoster
	limiter  *rate.Limiter
	rt       RelativeTimer
}

// NewTwitterNotifier creates a Twitter notifier from OAuth1 credentials
func NewTwitterNotifier(creds TwitterCredentials, rt RelativeTimer) (*TwitterNotifier, error) {
	if creds.APIKey == "" || creds.APISecret == "" || creds.AccessToken == "" || creds.AccessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return newTwitterNotifier(client.Statuses, rt, TweetInterval), nil
}

func newTwitterNotifier(statuses statusPoster, rt RelativeTimer, interval time.Duration) *TwitterNotifier {
	return &TwitterNotifier{
		statuses: statuses,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		rt:       rt,
	}
}

// Notify posts a tweet for each event, waiting on the limiter between posts
func (n *TwitterNotifier) Notify(ctx context.Context, events []meetup.EventSummary) (int, error) {
	for i, evt := range events {
		if err := n.limiter.Wait(ctx); err != nil {
			return i, fmt.Errorf("waiting to post: %w", err)
		}

		tweet := formatTweet(evt, n.rt)
		if _, _, err := n.statuses.Update(tweet, nil); err != nil {
			return i, fmt.Errorf("failed to post tweet for event %s: %w", evt.URLs.EventURL, err)
		}
	}

	return len(events), nil
}
