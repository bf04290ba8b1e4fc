package collector

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/perkola/pzwatch/internal/config"
	"github.com/perkola/pzwatch/internal/domain"
	"github.com/perkola/pzwatch/internal/logsource"
	"github.com/perkola/pzwatch/internal/storage"
)

// Manager owns the ingestion loop: it reads newly appended console log
// content, extracts events, folds them into the tracker, persists the
// snapshot, and appends to the archive. It is the single writer; query
// methods take the read lock and copy out, so readers always observe a
// fully applied batch.
type Manager struct {
	cfg       *config.Config
	src       logsource.Source
	snapshots *storage.SnapshotStore
	archive   *storage.Archive // nil when no database is configured

	mu            sync.RWMutex
	tracker       *Tracker
	extractor     *Extractor
	offsets       map[string]int64
	parseWarnings int64

	done chan struct{}
	wg   sync.WaitGroup
}

// NewManager creates a manager reading from src. archive may be nil.
func NewManager(cfg *config.Config, src logsource.Source, snapshots *storage.SnapshotStore, archive *storage.Archive) *Manager {
	return &Manager{
		cfg:       cfg,
		src:       src,
		snapshots: snapshots,
		archive:   archive,
		tracker:   NewTracker(),
		extractor: NewExtractor(),
		offsets:   make(map[string]int64),
		done:      make(chan struct{}),
	}
}

// Restore loads the last snapshot into the tracker. It never fails: a
// missing or corrupt snapshot starts the tracker empty.
func (m *Manager) Restore() {
	m.mu.Lock()
	snap := m.snapshots.Load()
	m.tracker.Restore(snap.Players)
	m.offsets = snap.Offsets
	m.parseWarnings = snap.ParseWarnings
	players := len(snap.Players)
	m.mu.Unlock()

	log.Printf("Restored %d players from %s", players, m.snapshots.Path())
}

// Start restores the last snapshot and begins polling.
func (m *Manager) Start(ctx context.Context) {
	m.Restore()
	log.Printf("Polling %s every %v", m.src.Name(), m.cfg.Log.PollInterval)

	m.wg.Add(1)
	go m.pollLoop(ctx)
}

// Stop halts the poll loop, waits for it, and persists a final
// snapshot.
func (m *Manager) Stop() {
	log.Println("Manager: stopping...")
	close(m.done)
	m.wg.Wait()

	m.mu.Lock()
	m.persistLocked()
	m.mu.Unlock()
	log.Println("Manager: shutdown complete")
}

func (m *Manager) pollLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.Log.PollInterval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx)

	for {
		select {
		case <-m.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// poll reads whatever the source appended since the last poll and runs
// it through the extract and track path. Read errors skip the poll;
// stored state is untouched and the next tick retries. The source read
// happens outside the lock so a slow FTP fetch never blocks queries;
// the poll loop is the only writer of offsets, so the offset cannot
// move underneath it.
func (m *Manager) poll(ctx context.Context) {
	name := m.src.Name()
	m.mu.RLock()
	offset := m.offsets[name]
	m.mu.RUnlock()

	data, base, err := m.src.ReadFrom(offset)
	if err != nil {
		log.Printf("Error reading %s: %v", name, err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if base != offset {
		log.Printf("Log %s truncated or rotated, restarting from offset %d", name, base)
		// New file, new timestamp context.
		m.extractor = NewExtractor()
	}

	events, warnings, consumed := m.extractor.Extract(data)
	newOffset := base + int64(consumed)
	if newOffset == offset && len(warnings) == 0 {
		return
	}

	for _, w := range warnings {
		log.Printf("Parse warning in %s: %s: %q", name, w.Reason, w.Line)
	}
	m.parseWarnings += int64(len(warnings))

	for _, ev := range events {
		m.tracker.Apply(ev)
	}
	m.offsets[name] = newOffset
	if len(events) > 0 {
		log.Printf("Processed %d events from %s (offset %d)", len(events), name, newOffset)
	}

	m.persistLocked()
	m.archiveLocked(ctx, events)
}

// Replay ingests one whole historical log file through the same
// extract and track path as live polling, then persists. Files ending
// in .gz are decompressed on the fly.
func (m *Manager) Replay(ctx context.Context, path string) error {
	rc, err := logsource.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// A replayed file is self-contained: it gets its own timestamp
	// context and does not disturb the live extractor's.
	ex := NewExtractor()
	events, warnings, _ := ex.Extract(data)
	for _, w := range warnings {
		log.Printf("Parse warning in %s: %s: %q", path, w.Reason, w.Line)
	}
	m.parseWarnings += int64(len(warnings))

	for _, ev := range events {
		m.tracker.Apply(ev)
	}
	log.Printf("Replayed %s: %d events, %d warnings", path, len(events), len(warnings))

	m.persistLocked()
	m.archiveLocked(ctx, events)
	return nil
}

// persistLocked saves the snapshot. Callers hold the write lock. A
// failed save is logged and retried implicitly on the next poll.
func (m *Manager) persistLocked() {
	snap := &storage.Snapshot{
		Offsets:       m.offsets,
		ParseWarnings: m.parseWarnings,
		Players:       m.tracker.Players(),
	}
	if err := m.snapshots.Save(snap); err != nil {
		log.Printf("Snapshot save failed: %v", err)
	}
}

// archiveLocked appends the batch and any lives it closed to the
// archive. Archive failures are logged and ingestion continues; the
// snapshot remains the source of truth.
func (m *Manager) archiveLocked(ctx context.Context, events []domain.Event) {
	closed := m.tracker.DrainClosedLives()
	if m.archive == nil {
		return
	}
	if err := m.archive.RecordEvents(ctx, events); err != nil {
		log.Printf("Archive write failed, continuing: %v", err)
	}
	for i := range closed {
		if err := m.archive.RecordLife(ctx, &closed[i]); err != nil {
			log.Printf("Archive life write failed, continuing: %v", err)
		}
	}
}

// Status probes the game port and the log source and fuses the signals
// into a verdict. It does not touch tracker state, so it takes no lock;
// the network and source calls carry their own timeouts.
func (m *Manager) Status(now time.Time) domain.StatusVerdict {
	sig := GatherSignals(m.src, m.cfg.GameAddr(), m.cfg.Status, now)
	return EvaluateStatus(sig, m.cfg.Status, now)
}

// PlayerStats returns a copy of one player's lifetime stats.
func (m *Manager) PlayerStats(name string) (*domain.PlayerLifetimeStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.tracker.Player(name)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// AllStats returns a deep copy of every player's lifetime stats.
func (m *Manager) AllStats() map[string]*domain.PlayerLifetimeStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*domain.PlayerLifetimeStats, len(m.tracker.Players()))
	for name, p := range m.tracker.Players() {
		out[name] = p.Clone()
	}
	return out
}

// Leaderboard ranks the tracked players in one category.
func (m *Manager) Leaderboard(category string, limit int, now time.Time) ([]storage.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return storage.Leaderboard(m.tracker.Players(), category, limit, now)
}

// WarningCount returns the number of lines that matched an event
// category but failed structural parsing since tracking began.
func (m *Manager) WarningCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.parseWarnings
}
