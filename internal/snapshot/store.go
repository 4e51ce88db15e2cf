package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/rollup"
)

// Store manages version files in one directory.
type Store struct {
	dir   string
	now   func() time.Time
	newID func() string
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for metadata timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// NewStore builds a store rooted at dir. The directory is created on first
// save.
func NewStore(dir string, opts ...StoreOption) *Store {
	store := &Store{
		dir: dir,
		now: time.Now,
		newID: func() string {
			return strings.SplitN(uuid.NewString(), "-", 2)[0]
		},
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Dir returns the versions directory.
func (s *Store) Dir() string {
	return s.dir
}

type document struct {
	Meta    metaJSON            `json:"_orgweaver"`
	Records []position.Position `json:"records"`
}

// Save writes records as a new version and returns its metadata.
func (s *Store) Save(label string, records []position.Position, notes map[string]string) (Metadata, error) {
	if records == nil {
		records = []position.Position{}
	}
	sum, err := checksum(records)
	if err != nil {
		return Metadata{}, err
	}
	created := s.now().UTC()
	meta := Metadata{
		ID:        created.Format(idLayout) + "-" + s.newID(),
		Label:     strings.TrimSpace(label),
		CreatedAt: created,
		Count:     len(records),
		TotalCost: rollup.TotalCost(records),
		Checksum:  sum,
		Notes:     cloneNotes(notes),
	}
	encoded, err := json.MarshalIndent(document{Meta: metadataToJSON(meta), Records: records}, "", "  ")
	if err != nil {
		return Metadata{}, fmt.Errorf("snapshot: encode %s: %w", meta.ID, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Metadata{}, fmt.Errorf("snapshot: create dir: %w", err)
	}
	if err := os.WriteFile(s.path(meta.ID), encoded, 0o644); err != nil {
		return Metadata{}, fmt.Errorf("snapshot: write %s: %w", meta.ID, err)
	}
	return meta, nil
}

// Check inspects the version file for id and returns its status and metadata.
func (s *Store) Check(id string) (CheckResult, error) {
	path := s.path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{ID: id, Path: path, State: StateMissing}, nil
		}
		return CheckResult{ID: id, Path: path, State: StateError, Err: err}, err
	}
	meta, _, err := decode(data)
	if err != nil {
		return CheckResult{ID: id, Path: path, State: StateInvalid, Err: err}, err
	}
	if meta.ID != id {
		err := fmt.Errorf("snapshot: metadata id %s does not match %s", meta.ID, id)
		return CheckResult{ID: id, Path: path, State: StateInvalid, Err: err}, err
	}
	return CheckResult{ID: id, Path: path, State: StateReady, Metadata: &meta}, nil
}

// List returns the metadata of every readable version, newest first. Files
// that fail to parse are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	var out []Metadata
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		result, err := s.Check(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil || result.Metadata == nil {
			continue
		}
		out = append(out, *result.Metadata)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Load restores a version. id may be a full id or a unique prefix; "latest"
// picks the newest version.
func (s *Store) Load(id string) ([]position.Position, Metadata, error) {
	resolved, err := s.resolve(strings.TrimSpace(id))
	if err != nil {
		return nil, Metadata{}, err
	}
	data, err := os.ReadFile(s.path(resolved))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("snapshot: read %s: %w", resolved, err)
	}
	meta, records, err := decode(data)
	if err != nil {
		return nil, Metadata{}, err
	}
	sum, err := checksum(records)
	if err != nil {
		return nil, Metadata{}, err
	}
	if sum != meta.Checksum {
		return nil, Metadata{}, fmt.Errorf("snapshot: %s checksum mismatch", resolved)
	}
	return records, meta, nil
}

func (s *Store) resolve(id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}
	versions, err := s.List()
	if err != nil {
		return "", err
	}
	if id == "latest" {
		if len(versions) == 0 {
			return "", ErrNotFound
		}
		return versions[0].ID, nil
	}
	var matches []string
	for _, v := range versions {
		if v.ID == id {
			return id, nil
		}
		if strings.HasPrefix(v.ID, id) {
			matches = append(matches, v.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("snapshot: %s matches %d versions", id, len(matches))
	}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}

func decode(data []byte) (Metadata, []position.Position, error) {
	var doc struct {
		Meta    *metaJSON           `json:"_orgweaver"`
		Records []position.Position `json:"records"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Metadata{}, nil, fmt.Errorf("snapshot: parse json: %w", err)
	}
	if doc.Meta == nil {
		return Metadata{}, nil, fmt.Errorf("snapshot: missing %s metadata", metaKey)
	}
	meta, err := metadataFromJSON(*doc.Meta)
	if err != nil {
		return Metadata{}, nil, err
	}
	if doc.Records == nil {
		doc.Records = []position.Position{}
	}
	return meta, doc.Records, nil
}

func checksum(records []position.Position) (string, error) {
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("snapshot: checksum: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
