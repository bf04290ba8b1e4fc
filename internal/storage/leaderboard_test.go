package storage

import (
	"testing"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

func leaderboardPlayers() map[string]*domain.PlayerLifetimeStats {
	return map[string]*domain.PlayerLifetimeStats{
		"Alice":   {Player: "Alice", Kills: 10, Deaths: 2, DistanceTiles: 5000, PlaytimeSeconds: 7200},
		"Bert":    {Player: "Bert", Kills: 25, Deaths: 5, DistanceTiles: 300, PlaytimeSeconds: 3600},
		"Charlie": {Player: "Charlie", Kills: 25, Deaths: 1, DistanceTiles: 1200, PlaytimeSeconds: 10800},
	}
}

// TestLeaderboardTieBreaksByName ensures tied metric values order by
// ascending player name, so repeated queries return identical rankings.
func TestLeaderboardTieBreaksByName(t *testing.T) {
	entries, err := Leaderboard(leaderboardPlayers(), CategoryKills, 0, time.Now())
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}

	want := []string{"Bert", "Charlie", "Alice"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Player != name {
			t.Fatalf("rank %d = %q, want %q (full order %+v)", i+1, entries[i].Player, name, entries)
		}
		if entries[i].Rank != i+1 {
			t.Fatalf("rank field = %d, want %d", entries[i].Rank, i+1)
		}
	}
	if entries[0].Display != "25" {
		t.Fatalf("display = %q, want 25", entries[0].Display)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	entries, err := Leaderboard(leaderboardPlayers(), CategoryKills, 2, time.Now())
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Player != "Bert" || entries[1].Player != "Charlie" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLeaderboardUnknownCategory(t *testing.T) {
	if _, err := Leaderboard(leaderboardPlayers(), "charisma", 0, time.Now()); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestLeaderboardPerCategoryOrder(t *testing.T) {
	players := leaderboardPlayers()

	tcs := []struct {
		category string
		want     []string
	}{
		{CategoryDistance, []string{"Alice", "Charlie", "Bert"}},
		{CategoryPlaytime, []string{"Charlie", "Alice", "Bert"}},
		{CategoryDeaths, []string{"Bert", "Alice", "Charlie"}},
		// 25/1 > 10/2 > 25/5
		{CategoryKDRatio, []string{"Charlie", "Bert", "Alice"}},
	}

	for _, tc := range tcs {
		t.Run(tc.category, func(t *testing.T) {
			entries, err := Leaderboard(players, tc.category, 0, time.Now())
			if err != nil {
				t.Fatalf("Leaderboard returned error: %v", err)
			}
			for i, name := range tc.want {
				if entries[i].Player != name {
					t.Fatalf("rank %d = %q, want %q", i+1, entries[i].Player, name)
				}
			}
		})
	}
}

// TestLeaderboardCurrentLife ensures only players with an active life
// are ranked, measured as now minus the life start.
func TestLeaderboardCurrentLife(t *testing.T) {
	start := time.Date(2025, 11, 15, 20, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Hour)
	ended := start.Add(30 * time.Minute)

	players := map[string]*domain.PlayerLifetimeStats{
		"Alive": {
			Player:         "Alive",
			Lives:          []domain.LifeRecord{{Sequence: 1, StartedAt: start, Active: true}},
			CurrentLifeSeq: 1,
		},
		"Fresh": {
			Player:         "Fresh",
			Lives:          []domain.LifeRecord{{Sequence: 1, StartedAt: start.Add(90 * time.Minute), Active: true}},
			CurrentLifeSeq: 1,
		},
		"Dead": {
			Player: "Dead",
			Lives:  []domain.LifeRecord{{Sequence: 1, StartedAt: start, EndedAt: &ended}},
		},
	}

	entries, err := Leaderboard(players, CategoryCurrentLife, 0, now)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (dead player excluded)", len(entries))
	}
	if entries[0].Player != "Alive" || entries[1].Player != "Fresh" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].Value != (2 * time.Hour).Seconds() {
		t.Fatalf("current life value = %v, want %v", entries[0].Value, (2 * time.Hour).Seconds())
	}
	if entries[0].Display != "2h 0m" {
		t.Fatalf("current life display = %q", entries[0].Display)
	}
}

func TestLeaderboardLongestLife(t *testing.T) {
	start := time.Date(2025, 11, 15, 20, 0, 0, 0, time.UTC)
	shortEnd := start.Add(10 * time.Minute)
	longEnd := start.Add(4 * time.Hour)

	players := map[string]*domain.PlayerLifetimeStats{
		"Ernie": {
			Player: "Ernie",
			Lives: []domain.LifeRecord{
				{Sequence: 1, StartedAt: start, EndedAt: &shortEnd},
				{Sequence: 2, StartedAt: start, EndedAt: &longEnd},
			},
		},
		"Bert": {
			Player: "Bert",
			Lives:  []domain.LifeRecord{{Sequence: 1, StartedAt: start, EndedAt: &shortEnd}},
		},
	}

	entries, err := Leaderboard(players, CategoryLongestLife, 0, time.Now())
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if entries[0].Player != "Ernie" || entries[0].Display != "4h 0m" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	entries, err := Leaderboard(nil, CategoryKills, 10, time.Now())
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %+v, want none", entries)
	}
}

func TestFormatPlaytime(t *testing.T) {
	tcs := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{3599, "59m"},
		{3600, "1h 0m"},
		{5400, "1h 30m"},
		{90000, "25h 0m"},
	}
	for _, tc := range tcs {
		if got := FormatPlaytime(tc.seconds); got != tc.want {
			t.Errorf("FormatPlaytime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
