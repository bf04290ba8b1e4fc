package collector

import (
	"strings"
	"testing"
	"time"

	"github.com/perkola/pzwatch/internal/config"
	"github.com/perkola/pzwatch/internal/domain"
)

var statusCfg = config.StatusConfig{
	IdleTolerance:     15 * time.Minute,
	HeartbeatInterval: 5 * time.Minute,
	ProbeTimeout:      time.Second,
	TailLines:         20,
}

func TestEvaluateStatus(t *testing.T) {
	now := time.Date(2025, 11, 15, 22, 0, 0, 0, time.UTC)

	tcs := []struct {
		name       string
		sig        domain.StatusSignals
		wantOnline bool
		wantReason string
	}{
		{
			name: "shutdown marker beats open port",
			sig: domain.StatusSignals{
				Probe:               domain.ProbeOpen,
				LogAge:              2 * time.Minute,
				LogAgeKnown:         true,
				ShutdownMarkerSeen:  true,
				RecentHeartbeatSeen: true,
			},
			wantOnline: false,
			wantReason: "server logged an explicit shutdown",
		},
		{
			name: "open port beats stale log",
			sig: domain.StatusSignals{
				Probe:       domain.ProbeOpen,
				LogAge:      5 * time.Hour,
				LogAgeKnown: true,
			},
			wantOnline: true,
			wantReason: "game port accepting connections, last log write ~5.0 hours ago",
		},
		{
			name:       "open port with unreadable log",
			sig:        domain.StatusSignals{Probe: domain.ProbeOpen},
			wantOnline: true,
			wantReason: "game port accepting connections",
		},
		{
			name:       "closed port with unreadable log",
			sig:        domain.StatusSignals{Probe: domain.ProbeClosed},
			wantOnline: false,
			wantReason: "game port closed and the log source could not be read, status unknown",
		},
		{
			name: "fresh log and heartbeat survive a probe blip",
			sig: domain.StatusSignals{
				Probe:               domain.ProbeTimeout,
				LogAge:              10 * time.Minute,
				LogAgeKnown:         true,
				RecentHeartbeatSeen: true,
			},
			wantOnline: true,
			wantReason: "game port closed but log activity 10 minutes ago, possibly restarting",
		},
		{
			name: "fresh log and player activity survive a probe blip",
			sig: domain.StatusSignals{
				Probe:             domain.ProbeClosed,
				LogAge:            3 * time.Minute,
				LogAgeKnown:       true,
				RecentPlayerEvent: true,
			},
			wantOnline: true,
			wantReason: "game port closed but log activity 3 minutes ago, possibly restarting",
		},
		{
			name: "fresh log without activity is not enough",
			sig: domain.StatusSignals{
				Probe:       domain.ProbeClosed,
				LogAge:      10 * time.Minute,
				LogAgeKnown: true,
			},
			wantOnline: false,
			wantReason: "no log activity for 10 minutes and no heartbeat seen (expected every 5 minutes)",
		},
		{
			name: "stale log overrides heartbeat",
			sig: domain.StatusSignals{
				Probe:               domain.ProbeClosed,
				LogAge:              200 * time.Minute,
				LogAgeKnown:         true,
				RecentHeartbeatSeen: true,
			},
			wantOnline: false,
			wantReason: "no log activity for ~3.3 hours and no heartbeat seen (expected every 5 minutes)",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			v := EvaluateStatus(tc.sig, statusCfg, now)
			if v.Online != tc.wantOnline {
				t.Fatalf("online = %v, want %v (reason %q)", v.Online, tc.wantOnline, v.Reason)
			}
			if v.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", v.Reason, tc.wantReason)
			}
			if !v.CheckedAt.Equal(now) {
				t.Fatalf("checked at = %v, want %v", v.CheckedAt, now)
			}
		})
	}
}

func TestEvaluateStatusVerdictFields(t *testing.T) {
	now := time.Date(2025, 11, 15, 22, 0, 0, 0, time.UTC)

	v := EvaluateStatus(domain.StatusSignals{
		Probe:       domain.ProbeOpen,
		LogAge:      10 * time.Minute,
		LogAgeKnown: true,
	}, statusCfg, now)
	if !v.PortOpen {
		t.Fatal("port should be reported open")
	}
	if v.LastLogAgeMinutes != 10 {
		t.Fatalf("log age minutes = %v, want 10", v.LastLogAgeMinutes)
	}

	unknown := EvaluateStatus(domain.StatusSignals{Probe: domain.ProbeClosed}, statusCfg, now)
	if unknown.LastLogAgeMinutes != -1 {
		t.Fatalf("unknown log age = %v, want -1", unknown.LastLogAgeMinutes)
	}
	if !strings.Contains(unknown.Reason, "unknown") {
		t.Fatalf("reason = %q", unknown.Reason)
	}
}

func TestFormatAge(t *testing.T) {
	tcs := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "0 minutes"},
		{30 * time.Minute, "30 minutes"},
		{90 * time.Minute, "~1.5 hours"},
		{200 * time.Minute, "~3.3 hours"},
		{47 * time.Hour, "~47.0 hours"},
		{72 * time.Hour, "~3.0 days"},
		{-5 * time.Minute, "0 minutes"},
	}
	for _, tc := range tcs {
		if got := formatAge(tc.d); got != tc.want {
			t.Errorf("formatAge(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
