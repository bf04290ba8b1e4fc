package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

// Leaderboard categories.
const (
	CategoryKills            = "kills"
	CategoryDistance         = "distance"
	CategoryPlaytime         = "playtime"
	CategoryLongestLife      = "longest_life"
	CategoryCurrentLife      = "current_life"
	CategoryKDRatio          = "kd_ratio"
	CategoryDeaths           = "deaths"
	CategoryItemsCrafted     = "items_crafted"
	CategoryStructuresPlaced = "structures_placed"
)

// Categories lists every valid leaderboard category, in display order.
var Categories = []string{
	CategoryKills,
	CategoryDistance,
	CategoryPlaytime,
	CategoryLongestLife,
	CategoryCurrentLife,
	CategoryKDRatio,
	CategoryDeaths,
	CategoryItemsCrafted,
	CategoryStructuresPlaced,
}

// LeaderboardEntry is one ranked row. Value carries the raw metric for
// sorting; Display is the human-readable form of the same number.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Player  string  `json:"player"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Leaderboard ranks players by the given category, descending, with
// ties broken by player name so repeated queries order identically.
// The current-life category only ranks players with an active life and
// measures them against the injected now. A limit <= 0 returns all.
func Leaderboard(players map[string]*domain.PlayerLifetimeStats, category string, limit int, now time.Time) ([]LeaderboardEntry, error) {
	if !validCategory(category) {
		return nil, fmt.Errorf("unknown leaderboard category %q (valid: %s)", category, strings.Join(Categories, ", "))
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		value, display, ok := categoryValue(p, category, now)
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{Player: p.Player, Value: value, Display: display})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Player < entries[j].Player
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// categoryValue extracts one player's metric for a category. ok is
// false when the player does not participate, or the category is
// unknown.
func categoryValue(p *domain.PlayerLifetimeStats, category string, now time.Time) (value float64, display string, ok bool) {
	switch category {
	case CategoryKills:
		return float64(p.Kills), strconv.FormatInt(p.Kills, 10), true
	case CategoryDeaths:
		return float64(p.Deaths), strconv.FormatInt(p.Deaths, 10), true
	case CategoryDistance:
		return float64(p.DistanceTiles), fmt.Sprintf("%d tiles", p.DistanceTiles), true
	case CategoryPlaytime:
		return float64(p.PlaytimeSeconds), FormatPlaytime(p.PlaytimeSeconds), true
	case CategoryLongestLife:
		d := p.LongestCompletedLife()
		return d.Seconds(), FormatPlaytime(int64(d / time.Second)), true
	case CategoryCurrentLife:
		life := p.CurrentLife()
		if life == nil {
			return 0, "", false
		}
		d := life.Duration(now)
		return d.Seconds(), FormatPlaytime(int64(d / time.Second)), true
	case CategoryKDRatio:
		v := p.KDRatio()
		return v, fmt.Sprintf("%.2f", v), true
	case CategoryItemsCrafted:
		return float64(p.ItemsCrafted), strconv.FormatInt(p.ItemsCrafted, 10), true
	case CategoryStructuresPlaced:
		return float64(p.StructuresPlaced), strconv.FormatInt(p.StructuresPlaced, 10), true
	}
	return 0, "", false
}

// FormatPlaytime renders a second count as hours and minutes.
func FormatPlaytime(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
