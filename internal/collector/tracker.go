// Package collector turns raw console log bytes into typed events and
// folds them into per-player statistics and server status signals.
package collector

import (
	"time"

	"github.com/google/uuid"

	"github.com/perkola/pzwatch/internal/domain"
)

// Tracker folds the parsed event stream into per-player lifetime stats
// and life records. It is not safe for concurrent use; the manager
// serializes access to it.
type Tracker struct {
	players map[string]*domain.PlayerLifetimeStats
	closed  []domain.LifeRecord // lives closed since the last drain
}

func NewTracker() *Tracker {
	return &Tracker{players: make(map[string]*domain.PlayerLifetimeStats)}
}

// Restore replaces the tracker state with players loaded from a
// snapshot. A nil map resets the tracker to empty.
func (t *Tracker) Restore(players map[string]*domain.PlayerLifetimeStats) {
	if players == nil {
		players = make(map[string]*domain.PlayerLifetimeStats)
	}
	t.players = players
	t.closed = nil
}

// Players returns the live state map. Callers must not retain it across
// further Apply calls without copying.
func (t *Tracker) Players() map[string]*domain.PlayerLifetimeStats {
	return t.players
}

// Player returns the live record for one player, if known.
func (t *Tracker) Player(name string) (*domain.PlayerLifetimeStats, bool) {
	p, ok := t.players[name]
	return p, ok
}

// DrainClosedLives returns the lives closed since the previous drain
// and clears the buffer. The manager forwards them to the archive.
func (t *Tracker) DrainClosedLives() []domain.LifeRecord {
	closed := t.closed
	t.closed = nil
	return closed
}

// transitionFunc mutates one player's stats in response to one event.
type transitionFunc func(t *Tracker, p *domain.PlayerLifetimeStats, ev domain.Event)

// transitions dispatches player-attributed events. Server-level events
// are handled in Apply before this table is consulted.
var transitions = map[string]transitionFunc{
	domain.EventPlayerConnect:     (*Tracker).applyConnect,
	domain.EventPlayerDisconnect:  (*Tracker).applyDisconnect,
	domain.EventZombieKill:        (*Tracker).applyZombieKill,
	domain.EventDeath:             (*Tracker).applyDeath,
	domain.EventDistanceMilestone: (*Tracker).applyDistance,
	domain.EventLevelUp:           (*Tracker).applyLevelUp,
	domain.EventItemCrafted:       (*Tracker).applyItemCrafted,
	domain.EventBuildingPlaced:    (*Tracker).applyBuildingPlaced,
	domain.EventVehicleUsed:       (*Tracker).applyVehicleUsed,
}

// Apply folds one event into the tracker and reports whether any state
// changed. Events must be applied in log order.
func (t *Tracker) Apply(ev domain.Event) bool {
	switch ev.Kind {
	case domain.EventServerStopping:
		return t.closeAllActive(ev.Timestamp, "server stopped") > 0
	case domain.EventServerStarted, domain.EventHeartbeat:
		return false
	}
	if !ev.IsPlayerEvent() {
		return false
	}
	fn, ok := transitions[ev.Kind]
	if !ok {
		return false
	}
	p := t.ensurePlayer(ev.Player)
	if !ev.Timestamp.IsZero() {
		if p.FirstSeen.IsZero() || ev.Timestamp.Before(p.FirstSeen) {
			p.FirstSeen = ev.Timestamp
		}
		if ev.Timestamp.After(p.LastSeen) {
			p.LastSeen = ev.Timestamp
		}
	}
	fn(t, p, ev)
	return true
}

func (t *Tracker) ensurePlayer(name string) *domain.PlayerLifetimeStats {
	if p, ok := t.players[name]; ok {
		return p
	}
	p := &domain.PlayerLifetimeStats{Player: name}
	t.players[name] = p
	return p
}

// closeAllActive ends every active life with the given cause and
// returns how many were closed. Used when the server announces a stop,
// since no per-player disconnect lines follow one.
func (t *Tracker) closeAllActive(ts time.Time, cause string) int {
	closed := 0
	for _, p := range t.players {
		if life := p.CurrentLife(); life != nil {
			t.closeLife(p, life, ts, cause)
			closed++
		}
	}
	return closed
}

func (t *Tracker) applyConnect(p *domain.PlayerLifetimeStats, ev domain.Event) {
	p.Connects++
	// A reconnect without an intervening death keeps the current life.
	ensureLife(p, ev.Timestamp)
}

func (t *Tracker) applyDisconnect(p *domain.PlayerLifetimeStats, ev domain.Event) {
	p.Disconnects++
	if life := p.CurrentLife(); life != nil {
		t.closeLife(p, life, ev.Timestamp, "disconnected")
	}
}

func (t *Tracker) applyZombieKill(p *domain.PlayerLifetimeStats, ev domain.Event) {
	life := ensureLife(p, ev.Timestamp)
	life.Kills++
	p.Kills++
}

func (t *Tracker) applyDeath(p *domain.PlayerLifetimeStats, ev domain.Event) {
	cause := "Unknown"
	if d, ok := ev.Data.(domain.DeathData); ok && d.Cause != "" {
		cause = d.Cause
	}
	p.Deaths++
	if p.DeathCauses == nil {
		p.DeathCauses = make(map[string]int64)
	}
	p.DeathCauses[cause]++
	// A death without a recorded connect still closes a life, so the
	// lifetime totals stay the sum of the per-life records.
	life := p.CurrentLife()
	if life == nil {
		life = ensureLife(p, ev.Timestamp)
	}
	t.closeLife(p, life, ev.Timestamp, cause)
}

func (t *Tracker) applyDistance(p *domain.PlayerLifetimeStats, ev domain.Event) {
	d, ok := ev.Data.(domain.DistanceData)
	if !ok {
		return
	}
	life := ensureLife(p, ev.Timestamp)
	life.DistanceTiles += d.Tiles
	p.DistanceTiles += d.Tiles
}

func (t *Tracker) applyLevelUp(p *domain.PlayerLifetimeStats, ev domain.Event) {
	d, ok := ev.Data.(domain.LevelUpData)
	if !ok {
		return
	}
	ensureLife(p, ev.Timestamp)
	if p.SkillLevels == nil {
		p.SkillLevels = make(map[string]int)
	}
	// Skills only ever rise; a lower report is a stale line.
	if d.Level > p.SkillLevels[d.Skill] {
		p.SkillLevels[d.Skill] = d.Level
	}
}

func (t *Tracker) applyItemCrafted(p *domain.PlayerLifetimeStats, ev domain.Event) {
	life := ensureLife(p, ev.Timestamp)
	life.ItemsCrafted++
	p.ItemsCrafted++
}

func (t *Tracker) applyBuildingPlaced(p *domain.PlayerLifetimeStats, ev domain.Event) {
	life := ensureLife(p, ev.Timestamp)
	life.StructuresPlaced++
	p.StructuresPlaced++
}

func (t *Tracker) applyVehicleUsed(p *domain.PlayerLifetimeStats, ev domain.Event) {
	life := ensureLife(p, ev.Timestamp)
	life.VehiclesUsed++
	p.VehiclesUsed++
}

// ensureLife returns the player's active life, opening a new one when
// none is active. Any sign of in-game activity implies a live player,
// so counting events open lives the same way connects do.
func ensureLife(p *domain.PlayerLifetimeStats, ts time.Time) *domain.LifeRecord {
	if life := p.CurrentLife(); life != nil {
		return life
	}
	seq := len(p.Lives) + 1
	p.Lives = append(p.Lives, domain.LifeRecord{
		ID:        uuid.NewString(),
		Player:    p.Player,
		Sequence:  seq,
		StartedAt: ts,
		Active:    true,
	})
	p.CurrentLifeSeq = seq
	return &p.Lives[len(p.Lives)-1]
}

// closeLife ends the active life at ts and folds its duration into the
// lifetime playtime. An end before the start is clamped to the start so
// out-of-order timestamps cannot produce negative playtime.
func (t *Tracker) closeLife(p *domain.PlayerLifetimeStats, life *domain.LifeRecord, ts time.Time, cause string) {
	end := ts
	if end.Before(life.StartedAt) {
		end = life.StartedAt
	}
	life.EndedAt = &end
	life.DeathCause = cause
	life.Active = false
	p.PlaytimeSeconds += int64(end.Sub(life.StartedAt) / time.Second)
	p.CurrentLifeSeq = 0
	t.closed = append(t.closed, *life)
}
