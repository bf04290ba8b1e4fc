// Package profile derives qualitative summaries from lifetime player
// statistics: playstyle labels, server-wide totals, and mod interest
// scores for picking workshop content that fits the player base.
package profile

import (
	"sort"

	"github.com/perkola/pzwatch/internal/domain"
)

// Playstyle labels, most specific first.
const (
	StyleFighter  = "Combat-Focused Fighter"
	StyleExplorer = "Explorer/Looter"
	StyleBuilder  = "Builder/Crafter"
	StyleHighRisk = "High-Risk Player"
	StyleRegular  = "Regular Player"
	StyleCasual   = "Casual Survivor"
)

// Classify labels a player's dominant playstyle. Rules are checked in
// order and the first match wins, so a prolific fighter who also walks
// a lot stays a fighter.
func Classify(p *domain.PlayerLifetimeStats) string {
	kills := float64(p.Kills)
	distance := float64(p.DistanceTiles)

	switch {
	case p.Kills > 50 && kills > distance/10:
		return StyleFighter
	case p.DistanceTiles > 1000 && distance > kills*10:
		return StyleExplorer
	case p.StructuresPlaced > 20 || p.ItemsCrafted > 50:
		return StyleBuilder
	case p.Deaths > 5:
		return StyleHighRisk
	case p.Connects > 10:
		return StyleRegular
	}
	return StyleCasual
}

// ModScores are per-category interest scores in [0, 1], derived from
// how the player base actually plays. A server full of builders scores
// high on building and low on combat.
type ModScores struct {
	Combat      float64 `json:"combat"`
	Building    float64 `json:"building"`
	Crafting    float64 `json:"crafting"`
	Vehicles    float64 `json:"vehicles"`
	Exploration float64 `json:"exploration"`
	Difficulty  float64 `json:"difficulty"`
}

// RecommendMods scores mod categories against the aggregate behaviour
// of every tracked player. An empty player base scores zero across the
// board.
func RecommendMods(players map[string]*domain.PlayerLifetimeStats) ModScores {
	n := len(players)
	if n == 0 {
		return ModScores{}
	}

	var kills, structures, crafted, vehicles, distance, deaths float64
	for _, p := range players {
		kills += float64(p.Kills)
		structures += float64(p.StructuresPlaced)
		crafted += float64(p.ItemsCrafted)
		vehicles += float64(p.VehiclesUsed)
		distance += float64(p.DistanceTiles)
		deaths += float64(p.Deaths)
	}

	fn := float64(n)
	return ModScores{
		Combat:      min(1, kills/fn/100),
		Building:    min(1, structures/fn/50),
		Crafting:    min(1, crafted/fn/100),
		Vehicles:    min(1, vehicles/(fn*10)),
		Exploration: min(1, distance/(fn*1000)),
		Difficulty:  min(1, deaths/(fn*3)),
	}
}

// ServerSummary aggregates the whole player base.
type ServerSummary struct {
	Players         int            `json:"players"`
	TotalKills      int64          `json:"total_kills"`
	TotalDeaths     int64          `json:"total_deaths"`
	TotalDistance   int64          `json:"total_distance_tiles"`
	TotalPlaytime   int64          `json:"total_playtime_seconds"`
	MostCommonDeath string         `json:"most_common_death,omitempty"`
	Playstyles      map[string]int `json:"playstyles,omitempty"`
}

// Summarize computes server-wide totals, the dominant death cause, and
// the playstyle distribution.
func Summarize(players map[string]*domain.PlayerLifetimeStats) ServerSummary {
	sum := ServerSummary{
		Players:    len(players),
		Playstyles: make(map[string]int),
	}

	causes := make(map[string]int64)
	for _, p := range players {
		sum.TotalKills += p.Kills
		sum.TotalDeaths += p.Deaths
		sum.TotalDistance += p.DistanceTiles
		sum.TotalPlaytime += p.PlaytimeSeconds
		sum.Playstyles[Classify(p)]++
		for cause, n := range p.DeathCauses {
			causes[cause] += n
		}
	}
	sum.MostCommonDeath = dominantCause(causes)
	return sum
}

// dominantCause picks the highest-count cause, breaking ties by name so
// repeated summaries agree.
func dominantCause(causes map[string]int64) string {
	names := make([]string, 0, len(causes))
	for cause := range causes {
		names = append(names, cause)
	}
	sort.Strings(names)

	var best string
	var bestCount int64
	for _, cause := range names {
		if causes[cause] > bestCount {
			best = cause
			bestCount = causes[cause]
		}
	}
	return best
}
