package storage

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveRecordAndReadEvents(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	ts := time.Date(2025, 11, 15, 21, 50, 0, 0, time.UTC)

	batch := []domain.Event{
		{Kind: domain.EventPlayerConnect, Timestamp: ts, Player: "Ernie"},
		{Kind: domain.EventZombieKill, Timestamp: ts.Add(time.Minute), Player: "Ernie"},
		{Kind: domain.EventDistanceMilestone, Timestamp: ts.Add(2 * time.Minute), Player: "Ernie", Data: domain.DistanceData{Tiles: 250}},
		{Kind: domain.EventHeartbeat, Timestamp: ts.Add(3 * time.Minute)},
	}
	if err := a.RecordEvents(ctx, batch); err != nil {
		t.Fatalf("RecordEvents returned error: %v", err)
	}

	events, err := a.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEvents returned error: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	// Newest first
	if events[0].Kind != domain.EventHeartbeat {
		t.Fatalf("newest kind = %q, want heartbeat", events[0].Kind)
	}
	if events[0].Player != "" {
		t.Fatalf("heartbeat player = %q, want empty", events[0].Player)
	}
	if events[1].Kind != domain.EventDistanceMilestone || events[1].Detail != "250 tiles" {
		t.Fatalf("event = %+v", events[1])
	}
	if !events[3].OccurredAt.Equal(ts) {
		t.Fatalf("oldest occurred at %v, want %v", events[3].OccurredAt, ts)
	}
}

func TestArchiveRecentEventsLimit(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	ts := time.Date(2025, 11, 15, 21, 50, 0, 0, time.UTC)

	var batch []domain.Event
	for i := 0; i < 5; i++ {
		batch = append(batch, domain.Event{Kind: domain.EventZombieKill, Timestamp: ts.Add(time.Duration(i) * time.Minute), Player: "Ernie"})
	}
	if err := a.RecordEvents(ctx, batch); err != nil {
		t.Fatalf("RecordEvents returned error: %v", err)
	}

	events, err := a.RecentEvents(ctx, 2)
	if err != nil {
		t.Fatalf("RecentEvents returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestArchiveRecordEventsEmptyBatch(t *testing.T) {
	a := openTestArchive(t)
	if err := a.RecordEvents(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}

func TestArchivePlayerEvents(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	ts := time.Date(2025, 11, 15, 21, 50, 0, 0, time.UTC)

	batch := []domain.Event{
		{Kind: domain.EventZombieKill, Timestamp: ts, Player: "Ernie"},
		{Kind: domain.EventZombieKill, Timestamp: ts.Add(time.Minute), Player: "Bert"},
		{Kind: domain.EventZombieKill, Timestamp: ts.Add(2 * time.Minute), Player: "Ernie"},
	}
	if err := a.RecordEvents(ctx, batch); err != nil {
		t.Fatalf("RecordEvents returned error: %v", err)
	}

	events, err := a.PlayerEvents(ctx, "Ernie", 10)
	if err != nil {
		t.Fatalf("PlayerEvents returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events for Ernie, want 2", len(events))
	}
	for _, ev := range events {
		if ev.Player != "Ernie" {
			t.Fatalf("event for wrong player: %+v", ev)
		}
	}
}

// TestArchiveRecordLifeUpsert ensures closing a life updates the row
// written when it opened instead of inserting a duplicate.
func TestArchiveRecordLifeUpsert(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	start := time.Date(2025, 11, 15, 20, 0, 0, 0, time.UTC)

	open := domain.LifeRecord{
		ID: "life-1", Player: "Ernie", Sequence: 1, StartedAt: start, Kills: 2, Active: true,
	}
	if err := a.RecordLife(ctx, &open); err != nil {
		t.Fatalf("RecordLife(open) returned error: %v", err)
	}

	end := start.Add(45 * time.Minute)
	closed := open
	closed.EndedAt = &end
	closed.DeathCause = "Zombie"
	closed.Kills = 7
	closed.Active = false
	if err := a.RecordLife(ctx, &closed); err != nil {
		t.Fatalf("RecordLife(closed) returned error: %v", err)
	}

	lives, err := a.LivesForPlayer(ctx, "Ernie")
	if err != nil {
		t.Fatalf("LivesForPlayer returned error: %v", err)
	}
	if len(lives) != 1 {
		t.Fatalf("got %d lives, want 1 (upsert, not insert)", len(lives))
	}
	life := lives[0]
	if life.Kills != 7 || life.DeathCause != "Zombie" {
		t.Fatalf("life = %+v", life)
	}
	if life.EndedAt == nil || !life.EndedAt.Equal(end) {
		t.Fatalf("ended at = %v, want %v", life.EndedAt, end)
	}
	if life.Active {
		t.Fatal("a life with an end timestamp should read back closed")
	}
	if !life.StartedAt.Equal(start) {
		t.Fatalf("started at = %v, want %v", life.StartedAt, start)
	}
}

func TestArchiveLivesForPlayerOrdered(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	start := time.Date(2025, 11, 15, 20, 0, 0, 0, time.UTC)

	// Insert out of sequence order
	for _, seq := range []int{2, 1, 3} {
		life := domain.LifeRecord{
			ID:        "life-" + strconv.Itoa(seq),
			Player:    "Ernie",
			Sequence:  seq,
			StartedAt: start.Add(time.Duration(seq) * time.Hour),
		}
		if err := a.RecordLife(ctx, &life); err != nil {
			t.Fatalf("RecordLife returned error: %v", err)
		}
	}

	lives, err := a.LivesForPlayer(ctx, "Ernie")
	if err != nil {
		t.Fatalf("LivesForPlayer returned error: %v", err)
	}
	if len(lives) != 3 {
		t.Fatalf("got %d lives, want 3", len(lives))
	}
	for i, life := range lives {
		if life.Sequence != i+1 {
			t.Fatalf("lives out of order: %+v", lives)
		}
	}
}

func TestArchiveLivesForUnknownPlayer(t *testing.T) {
	a := openTestArchive(t)
	lives, err := a.LivesForPlayer(context.Background(), "Nobody")
	if err != nil {
		t.Fatalf("LivesForPlayer returned error: %v", err)
	}
	if len(lives) != 0 {
		t.Fatalf("lives = %+v, want none", lives)
	}
}
