package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

// Snapshot is the collector's full persisted state: every player's
// lifetime stats and life records, the per-source read offsets, and the
// running parse-warning counter.
type Snapshot struct {
	SavedAt       time.Time                              `json:"saved_at"`
	Offsets       map[string]int64                       `json:"offsets"`
	ParseWarnings int64                                  `json:"parse_warnings"`
	Players       map[string]*domain.PlayerLifetimeStats `json:"players"`
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Offsets: make(map[string]int64),
		Players: make(map[string]*domain.PlayerLifetimeStats),
	}
}

// SnapshotStore persists the snapshot as one JSON document.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the snapshot from disk. A missing file yields a fresh
// empty snapshot. A corrupt or unreadable one is logged and likewise
// discarded, so startup never fails on persisted state.
func (s *SnapshotStore) Load() *Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Snapshot %s unreadable, starting fresh: %v", s.path, err)
		}
		return NewSnapshot()
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("Snapshot %s corrupt, starting fresh: %v", s.path, err)
		return NewSnapshot()
	}
	if snap.Offsets == nil {
		snap.Offsets = make(map[string]int64)
	}
	if snap.Players == nil {
		snap.Players = make(map[string]*domain.PlayerLifetimeStats)
	}
	return &snap
}

// Save writes the snapshot to a temp file in the destination directory
// and renames it over the previous one. A crash mid-write leaves the
// old snapshot intact.
func (s *SnapshotStore) Save(snap *Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".stats-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}

	snap.SavedAt = time.Now().UTC()
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
