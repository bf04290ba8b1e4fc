package collector

import (
	"fmt"
	"time"

	"github.com/perkola/pzwatch/internal/config"
	"github.com/perkola/pzwatch/internal/domain"
)

// EvaluateStatus fuses independently gathered signals into the
// online/offline verdict. All I/O happens in GatherSignals, so the
// policy here is testable with hand-built inputs.
//
// Precedence: an explicit shutdown marker wins over everything, an open
// game port wins over stale logs, and fresh log activity alone can keep
// the verdict online through a probe blip.
func EvaluateStatus(sig domain.StatusSignals, cfg config.StatusConfig, now time.Time) domain.StatusVerdict {
	v := domain.StatusVerdict{
		PortOpen:            sig.Probe == domain.ProbeOpen,
		LastLogAgeMinutes:   -1,
		ShutdownMarkerSeen:  sig.ShutdownMarkerSeen,
		RecentHeartbeatSeen: sig.RecentHeartbeatSeen,
		CheckedAt:           now,
	}
	if sig.LogAgeKnown {
		v.LastLogAgeMinutes = sig.LogAge.Minutes()
	}

	switch {
	case sig.ShutdownMarkerSeen:
		v.Online = false
		v.Reason = "server logged an explicit shutdown"
	case v.PortOpen:
		v.Online = true
		if sig.LogAgeKnown {
			v.Reason = fmt.Sprintf("game port accepting connections, last log write %s ago", formatAge(sig.LogAge))
		} else {
			v.Reason = "game port accepting connections"
		}
	case !sig.LogAgeKnown:
		v.Online = false
		v.Reason = "game port closed and the log source could not be read, status unknown"
	case sig.LogAge <= cfg.IdleTolerance && (sig.RecentHeartbeatSeen || sig.RecentPlayerEvent):
		v.Online = true
		v.Reason = fmt.Sprintf("game port closed but log activity %s ago, possibly restarting", formatAge(sig.LogAge))
	default:
		v.Online = false
		v.Reason = fmt.Sprintf("no log activity for %s and no heartbeat seen (expected every %d minutes)",
			formatAge(sig.LogAge), int(cfg.HeartbeatInterval.Minutes()))
	}
	return v
}

// formatAge renders a log age at full precision: whole minutes under an
// hour, tenths of hours under two days, tenths of days beyond.
func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	if d < 48*time.Hour {
		return fmt.Sprintf("~%.1f hours", d.Hours())
	}
	return fmt.Sprintf("~%.1f days", d.Hours()/24)
}
