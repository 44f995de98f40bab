package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

// Ledger records when each event was announced on a channel
type Ledger struct {
	Announced map[string]time.Time `json:"announced"`  // keyed by meetup.EventSummary.Key
	UpdatedAt string               `json:"updated_at"` // RFC3339 timestamp
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{Announced: make(map[string]time.Time)}
}

// Storage handles persistence of announcement ledgers
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ledgerPath returns the path to a channel's ledger file
func (s *Storage) ledgerPath(channel string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("announced_%s.json", strings.ToLower(channel)))
}

// LoadLedger loads a channel's ledger, returning an empty one if none exists yet
func (s *Storage) LoadLedger(channel string) (*Ledger, error) {
	data, err := os.ReadFile(s.ledgerPath(channel))
	if err != nil {
		if os.IsNotExist(err) {
			return NewLedger(), nil
		}
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}

	if ledger.Announced == nil {
		ledger.Announced = make(map[string]time.Time)
	}

	return &ledger, nil
}

// SaveLedger writes a channel's ledger to disk
func (s *Storage) SaveLedger(ledger *Ledger, channel string) error {
	ledger.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	if err := os.WriteFile(s.ledgerPath(channel), data, 0644); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	return nil
}

// Unannounced returns the events not in the ledger, keeping their order
func (l *Ledger) Unannounced(events []meetup.EventSummary) []meetup.EventSummary {
	fresh := make([]meetup.EventSummary, 0, len(events))
	for _, evt := range events {
		if _, seen := l.Announced[evt.Key()]; !seen {
			fresh = append(fresh, evt)
		}
	}
	return fresh
}

// MarkAnnounced records events as announced at the given time
func (l *Ledger) MarkAnnounced(events []meetup.EventSummary, at time.Time) {
	for _, evt := range events {
		l.Announced[evt.Key()] = at.UTC()
	}
}

// Prune removes entries announced before cutoff and returns how many were removed
func (l *Ledger) Prune(cutoff time.Time) int {
	removed := 0
	for url, at := range l.Announced {
		if at.Before(cutoff) {
			delete(l.Announced, url)
			removed++
		}
	}
	return removed
}
