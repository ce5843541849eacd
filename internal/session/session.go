// Package session persists per-session browser state between CLI invocations:
// the remote WebDriver session id, the ref table mapping @e tokens to in-page
// markers, and the last snapshot taken.
package session

import (
	"fmt"
	"time"
)

// DefaultName is the session used when the caller does not pick one.
const DefaultName = "default"

// stateVersion tags the on-disk schema. Unknown fields in newer files are
// ignored on load; missing fields get zero values.
const stateVersion = 1

// RefEntry maps a ref token to the durable marker value it was minted for,
// in the epoch it was minted.
type RefEntry struct {
	Marker string `json:"marker"`
	Epoch  int    `json:"epoch"`
}

// State is everything tauri-browse remembers about one named session.
type State struct {
	Version         int                 `json:"version"`
	Name            string              `json:"name"`
	DriverSessionID string              `json:"session_id"`
	Epoch           int                 `json:"epoch"`
	Refs            map[string]RefEntry `json:"refs"`
	NextRef         int                 `json:"next_ref"`
	LastSnapshot    string              `json:"last_snapshot,omitempty"`
	LastSnapshotAt  time.Time           `json:"last_snapshot_at,omitempty"`
	LastScreenshot  string              `json:"last_screenshot,omitempty"`
	Display         string              `json:"display,omitempty"`
}

// NewState returns a fresh State for a just-created remote session.
func NewState(name, driverSessionID string) *State {
	return &State{
		Version:         stateVersion,
		Name:            name,
		DriverSessionID: driverSessionID,
		Epoch:           1,
		Refs:            map[string]RefEntry{},
		NextRef:         1,
	}
}

// StaleRefError is returned when a token belongs to an expired epoch or to an
// element that no longer exists. The only recovery is a fresh snapshot.
type StaleRefError struct {
	Token string
	Epoch int // the session's current epoch at resolve time
}

func (e *StaleRefError) Error() string {
	return fmt.Sprintf("stale ref %s (current epoch %d): run 'tauri-browse snapshot -i' to get fresh refs", e.Token, e.Epoch)
}

// MintRef assigns the next sequential token in the current epoch to marker
// and records it in the ref table. Tokens are @e1..@eN in mint order and are
// never reused within an epoch.
func (s *State) MintRef(marker string) string {
	if s.Refs == nil {
		s.Refs = map[string]RefEntry{}
	}
	if s.NextRef < 1 {
		s.NextRef = 1
	}
	token := fmt.Sprintf("@e%d", s.NextRef)
	s.NextRef++
	s.Refs[token] = RefEntry{Marker: marker, Epoch: s.Epoch}
	return token
}

// ResolveRef returns the marker a token was minted for. Tokens from any
// earlier epoch fail with StaleRefError, even if a token with the same text
// has since been minted for a different element: the entry itself carries the
// epoch it belongs to.
func (s *State) ResolveRef(token string) (string, error) {
	entry, ok := s.Refs[token]
	if !ok || entry.Epoch != s.Epoch {
		return "", &StaleRefError{Token: token, Epoch: s.Epoch}
	}
	return entry.Marker, nil
}

// ResetRefs starts a new epoch: every previously minted token becomes stale
// and numbering restarts at @e1. Called before building any snapshot and
// after every navigation-causing command.
func (s *State) ResetRefs() {
	s.Epoch++
	s.Refs = map[string]RefEntry{}
	s.NextRef = 1
}
