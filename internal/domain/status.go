package domain

import "time"

// Probe results for the game-port reachability check. A timed-out dial is
// reported as closed; the distinction never reaches callers.
const (
	ProbeOpen    = "open"
	ProbeClosed  = "closed"
	ProbeTimeout = "timeout"
)

// StatusSignals are the independently gathered inputs to the online/offline
// decision. LogAgeKnown is false when the log source could not be read.
type StatusSignals struct {
	Probe               string        `json:"probe"`
	LogAge              time.Duration `json:"log_age_ns"`
	LogAgeKnown         bool          `json:"log_age_known"`
	ShutdownMarkerSeen  bool          `json:"shutdown_marker_seen"`
	RecentHeartbeatSeen bool          `json:"recent_heartbeat_seen"`
	RecentPlayerEvent   bool          `json:"recent_player_event"`
}

// StatusVerdict is the fused online/offline decision plus the raw signals
// it was computed from. LastLogAgeMinutes is -1 when the log source could
// not be read.
type StatusVerdict struct {
	Online              bool      `json:"online"`
	Reason              string    `json:"reason"`
	PortOpen            bool      `json:"port_open"`
	LastLogAgeMinutes   float64   `json:"last_log_age_minutes"`
	ShutdownMarkerSeen  bool      `json:"shutdown_marker_seen"`
	RecentHeartbeatSeen bool      `json:"recent_heartbeat_seen"`
	CheckedAt           time.Time `json:"checked_at"`
}
