package domain

import (
	"strconv"
	"time"
)

// Event kinds produced by the log extractor
const (
	EventPlayerConnect     = "player_connect"
	EventPlayerDisconnect  = "player_disconnect"
	EventZombieKill        = "zombie_kill"
	EventDeath             = "death"
	EventDistanceMilestone = "distance_milestone"
	EventLevelUp           = "level_up"
	EventItemCrafted       = "item_crafted"
	EventBuildingPlaced    = "building_placed"
	EventVehicleUsed       = "vehicle_used"
	EventServerStarted     = "server_started"
	EventServerStopping    = "server_stopping"
	EventHeartbeat         = "heartbeat"
)

// Event is a single typed occurrence extracted from the console log.
// Player is empty for server-level events (started, stopping, heartbeat).
type Event struct {
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Player    string      `json:"player,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// DeathData carries the cause extracted from a death line
type DeathData struct {
	Cause string `json:"cause"`
}

// DistanceData carries the tile count from a travel milestone line
type DistanceData struct {
	Tiles int64 `json:"tiles"`
}

// LevelUpData carries the skill and level reached
type LevelUpData struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// ItemCraftedData carries the crafted item name
type ItemCraftedData struct {
	Item string `json:"item"`
}

// BuildingPlacedData carries the placed structure name
type BuildingPlacedData struct {
	Structure string `json:"structure"`
}

// IsPlayerEvent reports whether the event is attributed to a player,
// as opposed to the server or its hosting platform.
func (e Event) IsPlayerEvent() bool {
	return e.Player != ""
}

// DetailString renders the kind-specific payload for display and archiving.
func (e Event) DetailString() string {
	switch d := e.Data.(type) {
	case DeathData:
		return d.Cause
	case DistanceData:
		return strconv.FormatInt(d.Tiles, 10) + " tiles"
	case LevelUpData:
		return d.Skill + " " + strconv.Itoa(d.Level)
	case ItemCraftedData:
		return d.Item
	case BuildingPlacedData:
		return d.Structure
	default:
		return ""
	}
}
