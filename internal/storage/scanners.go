package storage

import (
	"database/sql"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

// Null scanner helpers - reduce repetitive nil-checking code

func scanNullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func scanNullTime(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

// scanner is an interface satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanArchivedEvent scans one events row
func scanArchivedEvent(s scanner) (*ArchivedEvent, error) {
	var ev ArchivedEvent
	var player, detail sql.NullString
	if err := s.Scan(&ev.ID, &ev.Kind, &player, &ev.OccurredAt, &detail); err != nil {
		return nil, err
	}
	ev.Player = scanNullStringValue(player)
	ev.Detail = scanNullStringValue(detail)
	return &ev, nil
}

// scanLifeRow scans one lives row. Active is derived: a row with no end
// timestamp belongs to a life that was still open when archived.
func scanLifeRow(s scanner) (*domain.LifeRecord, error) {
	var life domain.LifeRecord
	var endedAt sql.NullTime
	var cause sql.NullString
	err := s.Scan(&life.ID, &life.Player, &life.Sequence, &life.StartedAt, &endedAt, &cause,
		&life.Kills, &life.DistanceTiles, &life.ItemsCrafted, &life.StructuresPlaced, &life.VehiclesUsed)
	if err != nil {
		return nil, err
	}
	life.EndedAt = scanNullTime(endedAt)
	life.DeathCause = scanNullStringValue(cause)
	life.Active = life.EndedAt == nil
	return &life, nil
}
