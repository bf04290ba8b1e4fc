package domain

import (
	"sort"
	"time"
)

// LifeRecord is one continuous in-game existence of a player, bounded by
// connect/spawn and death/disconnect. Once EndedAt is set the record is
// immutable history.
type LifeRecord struct {
	ID               string     `json:"id"`
	Player           string     `json:"player"`
	Sequence         int        `json:"sequence"`
	StartedAt        time.Time  `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	DeathCause       string     `json:"death_cause,omitempty"`
	Kills            int64      `json:"kills"`
	DistanceTiles    int64      `json:"distance_tiles"`
	ItemsCrafted     int64      `json:"items_crafted"`
	StructuresPlaced int64      `json:"structures_placed"`
	VehiclesUsed     int64      `json:"vehicles_used"`
	Active           bool       `json:"active"`
}

// Duration returns how long the life lasted, or how long it has been
// running so far when still active.
func (l *LifeRecord) Duration(now time.Time) time.Duration {
	if l.EndedAt != nil {
		return l.EndedAt.Sub(l.StartedAt)
	}
	if now.Before(l.StartedAt) {
		return 0
	}
	return now.Sub(l.StartedAt)
}

// PlayerLifetimeStats aggregates every counter across all of a player's
// lives. CurrentLifeSeq is 0 when the player has no active life.
type PlayerLifetimeStats struct {
	Player           string           `json:"player"`
	Kills            int64            `json:"kills"`
	Deaths           int64            `json:"deaths"`
	DistanceTiles    int64            `json:"distance_tiles"`
	ItemsCrafted     int64            `json:"items_crafted"`
	StructuresPlaced int64            `json:"structures_placed"`
	VehiclesUsed     int64            `json:"vehicles_used"`
	Connects         int64            `json:"connects"`
	Disconnects      int64            `json:"disconnects"`
	PlaytimeSeconds  int64            `json:"playtime_seconds"`
	FirstSeen        time.Time        `json:"first_seen"`
	LastSeen         time.Time        `json:"last_seen"`
	SkillLevels      map[string]int   `json:"skill_levels,omitempty"`
	DeathCauses      map[string]int64 `json:"death_causes,omitempty"`
	Lives            []LifeRecord     `json:"lives,omitempty"`
	CurrentLifeSeq   int              `json:"current_life_seq"`
}

// CurrentLife returns the active life record, or nil.
func (p *PlayerLifetimeStats) CurrentLife() *LifeRecord {
	if p.CurrentLifeSeq == 0 {
		return nil
	}
	for i := range p.Lives {
		if p.Lives[i].Sequence == p.CurrentLifeSeq {
			return &p.Lives[i]
		}
	}
	return nil
}

// KDRatio is kills per death; a deathless player counts as one death so
// the ratio stays finite.
func (p *PlayerLifetimeStats) KDRatio() float64 {
	deaths := p.Deaths
	if deaths == 0 {
		deaths = 1
	}
	return float64(p.Kills) / float64(deaths)
}

// LongestCompletedLife returns the longest closed life duration, zero if
// no life has ended yet.
func (p *PlayerLifetimeStats) LongestCompletedLife() time.Duration {
	var longest time.Duration
	for i := range p.Lives {
		l := &p.Lives[i]
		if l.EndedAt == nil {
			continue
		}
		if d := l.EndedAt.Sub(l.StartedAt); d > longest {
			longest = d
		}
	}
	return longest
}

// MostCommonDeathCause returns the dominant recorded cause and its count,
// breaking ties by cause name for stable output.
func (p *PlayerLifetimeStats) MostCommonDeathCause() (string, int64) {
	var best string
	var bestCount int64
	causes := make([]string, 0, len(p.DeathCauses))
	for cause := range p.DeathCauses {
		causes = append(causes, cause)
	}
	sort.Strings(causes)
	for _, cause := range causes {
		if n := p.DeathCauses[cause]; n > bestCount {
			best = cause
			bestCount = n
		}
	}
	return best, bestCount
}

// Clone returns a deep copy so callers can hand out stats without
// exposing the tracker's mutable state.
func (p *PlayerLifetimeStats) Clone() *PlayerLifetimeStats {
	c := *p
	c.Lives = make([]LifeRecord, len(p.Lives))
	copy(c.Lives, p.Lives)
	if p.SkillLevels != nil {
		c.SkillLevels = make(map[string]int, len(p.SkillLevels))
		for k, v := range p.SkillLevels {
			c.SkillLevels[k] = v
		}
	}
	if p.DeathCauses != nil {
		c.DeathCauses = make(map[string]int64, len(p.DeathCauses))
		for k, v := range p.DeathCauses {
			c.DeathCauses[k] = v
		}
	}
	return &c
}
