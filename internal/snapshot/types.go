// Package snapshot saves named versions of the record set under the project's
// .orgweaver/versions directory and restores them later. Each version is a
// JSON document holding the records plus an _orgweaver metadata block.
package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when no version matches an id.
var ErrNotFound = errors.New("snapshot: version not found")

// Metadata describes one saved version.
type Metadata struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Count     int
	TotalCost float64
	Checksum  string
	Notes     map[string]string
}

// State captures the readiness of a version file on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult is returned by Store.Check.
type CheckResult struct {
	ID       string
	Path     string
	State    State
	Metadata *Metadata
	Err      error
}

const (
	metaKey    = "_orgweaver"
	timeLayout = "2006-01-02T15:04:05Z07:00"
	idLayout   = "20060102T150405Z"
)

type metaJSON struct {
	ID        string            `json:"id"`
	Label     string            `json:"label,omitempty"`
	Created   string            `json:"created"`
	Count     int               `json:"count"`
	TotalCost float64           `json:"totalCost"`
	Checksum  string            `json:"checksum"`
	Notes     map[string]string `json:"notes,omitempty"`
}

func metadataToJSON(meta Metadata) metaJSON {
	return metaJSON{
		ID:        meta.ID,
		Label:     meta.Label,
		Created:   meta.CreatedAt.UTC().Format(timeLayout),
		Count:     meta.Count,
		TotalCost: meta.TotalCost,
		Checksum:  meta.Checksum,
		Notes:     cloneNotes(meta.Notes),
	}
}

func metadataFromJSON(raw metaJSON) (Metadata, error) {
	if raw.ID == "" || raw.Checksum == "" {
		return Metadata{}, fmt.Errorf("snapshot: incomplete metadata")
	}
	created, err := parseTime(raw.Created)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		ID:        raw.ID,
		Label:     raw.Label,
		CreatedAt: created,
		Count:     raw.Count,
		TotalCost: raw.TotalCost,
		Checksum:  raw.Checksum,
		Notes:     cloneNotes(raw.Notes),
	}, nil
}

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("snapshot: empty created timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("snapshot: parse created timestamp: %w", err)
	}
	return t.UTC(), nil
}

func cloneNotes(notes map[string]string) map[string]string {
	if len(notes) == 0 {
		return nil
	}
	out := make(map[string]string, len(notes))
	for k, v := range notes {
		out[k] = v
	}
	return out
}
