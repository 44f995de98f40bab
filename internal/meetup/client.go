package meetup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gdg-londrina/gdg-meetup/internal/reltime"
)

const (
	DefaultBaseURL = "https://api.meetup.com"
	DefaultGroup   = "GDG-Londrina"
	UserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/51.0.2704.103 Safari/537.36"
	Timeout        = 30 * time.Second

	eventsEndpoint = "2/events"
	statusUpcoming = "upcoming"
)

// ErrMissingField is returned when an event lacks a field the mapping needs
var ErrMissingField = errors.New("missing required field")

// Config holds the options recognized by the client. Only APIKey is required.
type Config struct {
	APIKey       string
	BaseURL      string
	GroupURLName string
	UserAgent    string
	HTTPClient   *http.Client
	Now          func() time.Time
}

// Client fetches group and event data from the Meetup API
type Client struct {
	apiKey     string
	baseURL    string
	group      string
	userAgent  string
	httpClient *http.Client
	relative   *reltime.Formatter
}

// NewClient creates a Meetup client from cfg, filling unset fields with defaults
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GroupURLName == "" {
		cfg.GroupURLName = DefaultGroup
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: Timeout}
	}

	relative := reltime.New(reltime.Portuguese)
	if cfg.Now != nil {
		relative = relative.WithClock(cfg.Now)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		group:      cfg.GroupURLName,
		userAgent:  cfg.UserAgent,
		httpClient: cfg.HTTPClient,
		relative:   relative,
	}, nil
}

// GroupDescription returns the group's description with HTML removed,
// truncated to its first line. Returns "" when the group has no description.
func (c *Client) GroupDescription(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)

	var g group
	if err := c.get(ctx, strings.ToLower(c.group), params, &g); err != nil {
		return "", fmt.Errorf("fetching group: %w", err)
	}

	if g.Description == "" {
		return "", nil
	}
	return FirstLine(StripHTML(g.Description)), nil
}

// UpcomingEvents returns every upcoming event of the group. An event missing
// its venue, description or photo fails the whole call.
func (c *Client) UpcomingEvents(ctx context.Context) ([]EventSummary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("group_urlname", c.group)
	params.Set("status", statusUpcoming)

	var resp eventsResponse
	if err := c.get(ctx, eventsEndpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	events := make([]EventSummary, 0, len(resp.Results))
	for i := range resp.Results {
		evt, err := toSummary(&resp.Results[i])
		if err != nil {
			return nil, fmt.Errorf("mapping event %d: %w", i, err)
		}
		events = append(events, evt)
	}

	return events, nil
}

// TimeUntil returns a Portuguese relative time for t, e.g. "em 3 dias"
func (c *Client) TimeUntil(t time.Time) string {
	return c.relative.FromNow(t)
}

// get issues a GET against the API and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}

// toSummary maps a raw event into its display shape
func toSummary(e *rawEvent) (EventSummary, error) {
	if e.Venue == nil {
		return EventSummary{}, fmt.Errorf("%w: venue", ErrMissingField)
	}
	if e.Description == nil {
		return EventSummary{}, fmt.Errorf("%w: description", ErrMissingField)
	}
	if e.PhotoURL == nil {
		return EventSummary{}, fmt.Errorf("%w: photo_url", ErrMissingField)
	}

	return EventSummary{
		Location: Location{
			Address:    e.Venue.Address1,
			Complement: e.HowToFindUs,
			City:       e.Venue.City,
		},
		MaxInvites:       e.RSVPLimit,
		MaybeCount:       e.MaybeRSVPCount,
		YesCount:         e.YesRSVPCount,
		RemainingInvites: e.RSVPLimit - e.YesRSVPCount,
		Name:             e.Name,
		Description:      CleanDescription(*e.Description),
		URLs: URLs{
			EventURL:    e.EventURL,
			ArtThumbURL: *e.PhotoURL,
			ArtURL:      HighResURL(*e.PhotoURL),
		},
		Duration:       DurationString(e.Duration),
		DurationMillis: e.Duration,
		When:           time.UnixMilli(e.Time),
	}, nil
}
