package collector

import (
	"log"
	"time"

	"github.com/perkola/pzwatch/internal/config"
	"github.com/perkola/pzwatch/internal/domain"
	"github.com/perkola/pzwatch/internal/logsource"
)

// GatherSignals collects the inputs for a status verdict: a TCP probe
// of the game port, the log source's modification age, and a scan of
// the last few tail lines for shutdown markers and recent activity.
func GatherSignals(src logsource.Source, gameAddr string, cfg config.StatusConfig, now time.Time) domain.StatusSignals {
	sig := domain.StatusSignals{Probe: ProbePort(gameAddr, cfg.ProbeTimeout)}

	mt, err := src.ModTime()
	if err != nil {
		log.Printf("Status check: mod time for %s unavailable: %v", src.Name(), err)
	} else {
		age := now.Sub(mt)
		if age < 0 {
			age = 0
		}
		sig.LogAge = age
		sig.LogAgeKnown = true
	}

	lines, err := src.Tail(cfg.TailLines)
	if err != nil {
		log.Printf("Status check: tail of %s unavailable: %v", src.Name(), err)
		return sig
	}

	// Undated tail lines borrow the file's modification age, since the
	// tail is by construction the newest content the source has.
	undatedRecent := sig.LogAgeKnown && sig.LogAge <= cfg.IdleTolerance

	ex := NewExtractor()
	for _, line := range lines {
		ev, _ := ex.ParseLine(line)
		if ev == nil {
			continue
		}
		switch ev.Kind {
		case domain.EventServerStopping:
			sig.ShutdownMarkerSeen = true
			continue
		case domain.EventServerStarted:
			// A later start line cancels an earlier shutdown marker so
			// a restart is not misread as a stop.
			sig.ShutdownMarkerSeen = false
			continue
		}
		if !recentEnough(ev.Timestamp, undatedRecent, cfg.IdleTolerance, now) {
			continue
		}
		if ev.Kind == domain.EventHeartbeat {
			sig.RecentHeartbeatSeen = true
		} else if ev.IsPlayerEvent() {
			sig.RecentPlayerEvent = true
		}
	}
	return sig
}

func recentEnough(ts time.Time, undatedRecent bool, tolerance time.Duration, now time.Time) bool {
	if ts.IsZero() {
		return undatedRecent
	}
	age := now.Sub(ts)
	if age < 0 {
		age = 0
	}
	return age <= tolerance
}
