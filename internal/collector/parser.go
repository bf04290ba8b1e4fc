package collector

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

var errEmptyField = errors.New("empty capture")

var (
	// Matches the bracketed timestamp most console lines carry:
	// [15-11-25 21:50:40.485] (day-month-year) or [2025-11-15 21:50:40]
	timestampRegex    = regexp.MustCompile(`\[(\d{2}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})(?:\.\d+)?\]`)
	isoTimestampRegex = regexp.MustCompile(`\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})(?:\.\d+)?\]`)

	// Event patterns, tried in table order
	connectRegex    = regexp.MustCompile(`ConnectionManager:?\s*\[fully-connected\].*?username="([^"]+)"`)
	disconnectRegex = regexp.MustCompile(`Disconnected player "([^"]+)"`)
	zombieKillRegex = regexp.MustCompile(`(\w+) killed a zombie`)
	deathRegex      = regexp.MustCompile(`(\w+) died\b`)
	distanceRegex   = regexp.MustCompile(`(\w+) traveled (\d+) tiles`)
	levelUpRegex    = regexp.MustCompile(`(\w+) reached level (\d+) in (\w+)`)
	craftedRegex    = regexp.MustCompile(`(\w+) crafted ([\w\s]+)`)
	placedRegex     = regexp.MustCompile(`(\w+) placed ([\w\s]+)`)
	vehicleRegex    = regexp.MustCompile(`(\w+) entered vehicle`)
	startedRegex    = regexp.MustCompile(`SERVER STARTED`)
	stoppingRegex   = regexp.MustCompile(`SERVER STOPPING`)
	heartbeatRegex  = regexp.MustCompile(`(?i)\bheartbeat\b`)
)

// deathCauses maps keywords on a death line to the recorded cause,
// checked in order.
var deathCauses = []struct {
	keyword string
	cause   string
}{
	{"zombie", "Zombie"},
	{"starvation", "Starvation"},
	{"dehydration", "Dehydration"},
	{"bleeding", "Blood Loss"},
	{"infection", "Infection"},
	{"fall", "Fall Damage"},
	{"fire", "Fire"},
	{"vehicle", "Vehicle Accident"},
}

// ParseWarning reports a line that matched a known category but failed
// structural parsing. The line is skipped; extraction continues.
type ParseWarning struct {
	Line   string
	Reason string
}

// rule pairs a line pattern with its event constructor. The table is
// tried in order and the first matching rule wins, so adding an event
// type means appending one entry.
type rule struct {
	kind  string
	re    *regexp.Regexp
	build func(m []string, ts time.Time, line string) (domain.Event, error)
}

var rules = []rule{
	{domain.EventPlayerConnect, connectRegex, buildConnect},
	{domain.EventPlayerDisconnect, disconnectRegex, buildDisconnect},
	{domain.EventServerStopping, stoppingRegex, buildServerStopping},
	{domain.EventServerStarted, startedRegex, buildServerStarted},
	{domain.EventHeartbeat, heartbeatRegex, buildHeartbeat},
	{domain.EventZombieKill, zombieKillRegex, buildZombieKill},
	{domain.EventDeath, deathRegex, buildDeath},
	{domain.EventDistanceMilestone, distanceRegex, buildDistance},
	{domain.EventLevelUp, levelUpRegex, buildLevelUp},
	{domain.EventItemCrafted, craftedRegex, buildCrafted},
	{domain.EventBuildingPlaced, placedRegex, buildPlaced},
	{domain.EventVehicleUsed, vehicleRegex, buildVehicle},
}

// Extractor turns raw console log bytes into events. It keeps the last
// parsed timestamp so lines without one (the disconnect format omits it)
// inherit it; replay therefore never consults the wall clock.
type Extractor struct {
	lastTS time.Time
}

// NewExtractor creates an extractor with no timestamp context.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses every complete line in chunk. The returned consumed
// count stops at the last newline, so a partial trailing line stays
// unconsumed and is re-read on the next poll once the server finishes
// writing it.
func (e *Extractor) Extract(chunk []byte) ([]domain.Event, []ParseWarning, int) {
	var events []domain.Event
	var warnings []ParseWarning
	consumed := 0

	for consumed < len(chunk) {
		nl := bytes.IndexByte(chunk[consumed:], '\n')
		if nl < 0 {
			break
		}
		line := string(chunk[consumed : consumed+nl])
		consumed += nl + 1

		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		ev, warn := e.ParseLine(line)
		if warn != nil {
			warnings = append(warnings, *warn)
			continue
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}

	return events, warnings, consumed
}

// ParseLine parses a single complete line. It returns (nil, nil) for
// lines no rule recognizes.
func (e *Extractor) ParseLine(line string) (*domain.Event, *ParseWarning) {
	ts := e.lastTS
	if m := timestampRegex.FindStringSubmatch(line); m != nil {
		if parsed, err := time.ParseInLocation("02-01-06 15:04:05", m[1], time.UTC); err == nil {
			ts = parsed
			e.lastTS = parsed
		}
	} else if m := isoTimestampRegex.FindStringSubmatch(line); m != nil {
		if parsed, err := time.ParseInLocation("2006-01-02 15:04:05", m[1], time.UTC); err == nil {
			ts = parsed
			e.lastTS = parsed
		}
	}

	for _, r := range rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ev, err := r.build(m, ts, line)
		if err != nil {
			return nil, &ParseWarning{Line: line, Reason: r.kind + ": " + err.Error()}
		}
		return &ev, nil
	}

	return nil, nil
}

func buildConnect(m []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventPlayerConnect, Timestamp: ts, Player: m[1]}, nil
}

func buildDisconnect(m []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventPlayerDisconnect, Timestamp: ts, Player: m[1]}, nil
}

func buildServerStarted(_ []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventServerStarted, Timestamp: ts}, nil
}

func buildServerStopping(_ []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventServerStopping, Timestamp: ts}, nil
}

func buildHeartbeat(_ []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventHeartbeat, Timestamp: ts}, nil
}

func buildZombieKill(m []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventZombieKill, Timestamp: ts, Player: m[1]}, nil
}

func buildDeath(m []string, ts time.Time, line string) (domain.Event, error) {
	return domain.Event{
		Kind:      domain.EventDeath,
		Timestamp: ts,
		Player:    m[1],
		Data:      domain.DeathData{Cause: ExtractDeathCause(line)},
	}, nil
}

func buildDistance(m []string, ts time.Time, _ string) (domain.Event, error) {
	tiles, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		Kind:      domain.EventDistanceMilestone,
		Timestamp: ts,
		Player:    m[1],
		Data:      domain.DistanceData{Tiles: tiles},
	}, nil
}

func buildLevelUp(m []string, ts time.Time, _ string) (domain.Event, error) {
	level, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		Kind:      domain.EventLevelUp,
		Timestamp: ts,
		Player:    m[1],
		Data:      domain.LevelUpData{Skill: m[3], Level: level},
	}, nil
}

func buildCrafted(m []string, ts time.Time, _ string) (domain.Event, error) {
	item := strings.TrimSpace(m[2])
	if item == "" {
		return domain.Event{}, errEmptyField
	}
	return domain.Event{
		Kind:      domain.EventItemCrafted,
		Timestamp: ts,
		Player:    m[1],
		Data:      domain.ItemCraftedData{Item: item},
	}, nil
}

func buildPlaced(m []string, ts time.Time, _ string) (domain.Event, error) {
	structure := strings.TrimSpace(m[2])
	if structure == "" {
		return domain.Event{}, errEmptyField
	}
	return domain.Event{
		Kind:      domain.EventBuildingPlaced,
		Timestamp: ts,
		Player:    m[1],
		Data:      domain.BuildingPlacedData{Structure: structure},
	}, nil
}

func buildVehicle(m []string, ts time.Time, _ string) (domain.Event, error) {
	return domain.Event{Kind: domain.EventVehicleUsed, Timestamp: ts, Player: m[1]}, nil
}

// ExtractDeathCause scans a death line for known cause keywords.
func ExtractDeathCause(line string) string {
	lower := strings.ToLower(line)
	for _, c := range deathCauses {
		if strings.Contains(lower, c.keyword) {
			return c.cause
		}
	}
	return "Unknown"
}
