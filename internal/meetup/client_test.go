package meetup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestClient points a client at a test server serving body for every request
func newTestClient(t *testing.T, status int, body string, check func(r *http.Request)) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body)) // nolint:errcheck
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("NewClient() expected error for missing API key, got nil")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.group != DefaultGroup {
		t.Errorf("group = %q, want %q", client.group, DefaultGroup)
	}
	if client.userAgent != UserAgent {
		t.Errorf("userAgent = %q, want %q", client.userAgent, UserAgent)
	}
	if client.httpClient.Timeout != Timeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, Timeout)
	}
}

func TestGroupDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "html stripped and first line kept",
			body: `{"name":"GDG Londrina","description":"<p>Hello</p>\nworld"}`,
			want: "Hello",
		},
		{
			name: "missing description",
			body: `{"name":"GDG Londrina"}`,
			want: "",
		},
		{
			name: "empty description",
			body: `{"description":""}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.StatusOK, tt.body, nil)

			got, err := client.GroupDescription(context.Background())
			if err != nil {
				t.Fatalf("GroupDescription() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GroupDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupDescription_Request(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{}`, func(r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/gdg-londrina" {
			t.Errorf("path = %q, want /gdg-londrina", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want test-key", got)
		}
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("User-Agent = %q, want %q", got, UserAgent)
		}
	})

	if _, err := client.GroupDescription(context.Background()); err != nil {
		t.Fatalf("GroupDescription() unexpected error: %v", err)
	}
}

func TestUpcomingEvents_Request(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"results":[]}`, func(r *http.Request) {
		if r.URL.Path != "/2/events" {
			t.Errorf("path = %q, want /2/events", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"key":           "test-key",
			"group_urlname": "GDG-Londrina",
			"status":        "upcoming",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("query %s = %q, want %q", k, got, v)
			}
		}
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("User-Agent = %q, want %q", got, UserAgent)
		}
	})

	events, err := client.UpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("UpcomingEvents() unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

const sampleEvents = `{
  "results": [
    {
      "name": "DevFest Londrina",
      "description": "<p>Venha para o DevFest!<br/>Palestras o dia todo.</p>",
      "venue": {"address_1": "Rua Sergipe, 100", "city": "Londrina"},
      "how_to_find_us": "Bloco B, sala 2",
      "rsvp_limit": 50,
      "maybe_rsvp_count": 4,
      "yes_rsvp_count": 30,
      "event_url": "https://www.meetup.com/GDG-Londrina/events/123/",
      "photo_url": "https://secure.meetupstatic.com/photos/event/global_456.jpeg",
      "duration": 5400000,
      "time": 1793890800000
    },
    {
      "name": "Study Jam",
      "description": "Sem markup",
      "venue": {"address_1": "Av. Higienópolis, 1", "city": "Londrina"},
      "rsvp_limit": 10,
      "yes_rsvp_count": 12,
      "event_url": "https://www.meetup.com/GDG-Londrina/events/124/",
      "photo_url": "https://example.com/global/global.jpeg",
      "duration": 2700000,
      "time": 1794495600000
    }
  ]
}`

func TestUpcomingEvents_Mapping(t *testing.T) {
	client := newTestClient(t, http.StatusOK, sampleEvents, nil)

	events, err := client.UpcomingEvents(context.Background())
	if err != nil {
		t.Fatalf("UpcomingEvents() unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.Location.Address != "Rua Sergipe, 100" || first.Location.City != "Londrina" {
		t.Errorf("unexpected location: %+v", first.Location)
	}
	if first.Location.Complement != "Bloco B, sala 2" {
		t.Errorf("Complement = %q", first.Location.Complement)
	}
	if first.MaxInvites != 50 || first.YesCount != 30 || first.MaybeCount != 4 {
		t.Errorf("unexpected counts: %+v", first)
	}
	if first.RemainingInvites != 20 {
		t.Errorf("RemainingInvites = %d, want 20", first.RemainingInvites)
	}
	if first.Description != "Venha para o DevFest!\nPalestras o dia todo." {
		t.Errorf("Description = %q", first.Description)
	}
	if first.URLs.ArtThumbURL != "https://secure.meetupstatic.com/photos/event/global_456.jpeg" {
		t.Errorf("ArtThumbURL = %q", first.URLs.ArtThumbURL)
	}
	if first.URLs.ArtURL != "https://secure.meetupstatic.com/photos/event/highres_456.jpeg" {
		t.Errorf("ArtURL = %q", first.URLs.ArtURL)
	}
	if first.URLs.EventURL != "https://www.meetup.com/GDG-Londrina/events/123/" {
		t.Errorf("EventURL = %q", first.URLs.EventURL)
	}
	if first.Duration != " 1 horas e 30 minutos" {
		t.Errorf("Duration = %q", first.Duration)
	}
	if !first.When.Equal(time.UnixMilli(1793890800000)) {
		t.Errorf("When = %v", first.When)
	}

	second := events[1]
	if second.RemainingInvites != -2 {
		t.Errorf("RemainingInvites = %d, want -2 (not clamped)", second.RemainingInvites)
	}
	if second.URLs.ArtURL != "https://example.com/highres/global.jpeg" {
		t.Errorf("ArtURL = %q, want only first occurrence replaced", second.URLs.ArtURL)
	}
	if second.Duration != " e 45 minutos" {
		t.Errorf("Duration = %q", second.Duration)
	}
	if second.Location.Complement != "" {
		t.Errorf("Complement = %q, want empty", second.Location.Complement)
	}
}

func TestUpcomingEvents_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "no venue",
			body:  `{"results":[{"name":"x","description":"d","photo_url":"p"}]}`,
			field: "venue",
		},
		{
			name:  "no description",
			body:  `{"results":[{"name":"x","venue":{},"photo_url":"p"}]}`,
			field: "description",
		},
		{
			name:  "no photo",
			body:  `{"results":[{"name":"x","venue":{},"description":"d"}]}`,
			field: "photo_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.StatusOK, tt.body, nil)

			events, err := client.UpcomingEvents(context.Background())
			if err == nil {
				t.Fatal("UpcomingEvents() expected error, got nil")
			}
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("error = %v, want ErrMissingField", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error = %v, want mention of %s", err, tt.field)
			}
			if events != nil {
				t.Errorf("expected nil events on failure, got %d", len(events))
			}
		})
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "oops", "unexpected status code: 500"},
		{"unauthorized", http.StatusUnauthorized, `{"errors":[]}`, "unexpected status code: 401"},
		{"malformed json", http.StatusOK, `{not json`, "parsing response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.status, tt.body, nil)

			if _, err := client.GroupDescription(context.Background()); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("GroupDescription() error = %v, want containing %q", err, tt.wantErr)
			}
			if _, err := client.UpcomingEvents(context.Background()); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("UpcomingEvents() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}

	if _, err := client.GroupDescription(context.Background()); err == nil {
		t.Error("GroupDescription() expected error for closed server, got nil")
	}
	if _, err := client.UpcomingEvents(context.Background()); err == nil {
		t.Error("UpcomingEvents() expected error for closed server, got nil")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{}`, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GroupDescription(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GroupDescription() error = %v, want context.Canceled", err)
	}
}

func TestTimeUntil(t *testing.T) {
	now := time.Date(2026, time.October, 15, 19, 0, 0, 0, time.UTC)
	client, err := NewClient(Config{APIKey: "k", Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}

	tests := []struct {
		when time.Time
		want string
	}{
		{now.Add(-48 * time.Hour), "2 dias atrás"},
		{now.Add(time.Minute), "em um minuto"},
		{now.AddDate(0, 0, 3), "em 3 dias"},
		{now.Add(-2 * time.Hour), "2 horas atrás"},
	}

	for _, tt := range tests {
		if got := client.TimeUntil(tt.when); got != tt.want {
			t.Errorf("TimeUntil(%v) = %q, want %q", tt.when, got, tt.want)
		}
	}
}
