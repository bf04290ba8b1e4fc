// pzwatch - Project Zomboid server telemetry and player statistics
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/perkola/pzwatch/internal/collector"
	"github.com/perkola/pzwatch/internal/config"
	"github.com/perkola/pzwatch/internal/logsource"
	"github.com/perkola/pzwatch/internal/profile"
	"github.com/perkola/pzwatch/internal/serverconfig"
	"github.com/perkola/pzwatch/internal/storage"
)

var version = "dev"

const defaultConfigPath = "/etc/pzwatch/pzwatch.yml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	case "status":
		cmdStatus(os.Args[2:])
	case "stats":
		cmdStats(os.Args[2:])
	case "leaderboard":
		cmdLeaderboard(os.Args[2:])
	case "summary":
		cmdSummary(os.Args[2:])
	case "history":
		cmdHistory(os.Args[2:])
	case "replay":
		cmdReplay(os.Args[2:])
	case "sandbox":
		cmdSandbox(os.Args[2:])
	case "mods":
		cmdMods(os.Args[2:])
	case "version":
		fmt.Printf("pzwatch %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: pzwatch <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init [--ftp-host H] [--log-path P]  Write a starter config file")
	fmt.Println("  serve                               Watch the server log and track stats")
	fmt.Println("  status                              Show the online/offline verdict")
	fmt.Println("  stats <player>                      Show one player's lifetime stats")
	fmt.Println("  leaderboard [--category C] [--limit N]")
	fmt.Println("                                      Rank players (default: kills, top 10)")
	fmt.Println("  summary                             Server-wide totals and playstyles")
	fmt.Println("  history [--player P] [--limit N]    Show archived events and lives (needs database)")
	fmt.Println("  replay <file>...                    Ingest historical logs (.gz supported)")
	fmt.Println("  sandbox <file.lua> [--set K=V]      List or edit SandboxVars settings")
	fmt.Println("  mods <server.ini> [--add ID] [--remove ID] [--workshop WID]")
	fmt.Println("                                      List or edit the server mod lists")
	fmt.Println("  version                             Show version")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>    Path to configuration file (default /etc/pzwatch/pzwatch.yml)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  pzwatch init --config ./pzwatch.yml --log-path ./server-console.txt")
	fmt.Println("  pzwatch serve --config ./pzwatch.yml")
	fmt.Println("  pzwatch leaderboard --category playtime --limit 5")
	fmt.Println("  pzwatch mods servertest.ini --add BetterSorting --workshop 2313387159")
}

// loadConfig loads configuration for one-shot commands.
func loadConfig(path string) *config.Config {
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newSource builds the configured log source.
func newSource(cfg *config.Config) logsource.Source {
	if cfg.Log.Source == "ftp" {
		addr := fmt.Sprintf("%s:%d", cfg.FTP.Host, cfg.FTP.Port)
		return logsource.NewFTPSource(addr, cfg.FTP.User, cfg.FTP.Password, cfg.Log.Path, 0)
	}
	return logsource.NewFileSource(cfg.Log.Path)
}

const configTemplate = `# pzwatch configuration

game:
  address: %s
  port: %d

log:
  # source is "file" or "ftp"
  source: %s
  path: %s
  poll_interval: 30s

status:
  idle_tolerance: 15m
  heartbeat_interval: 5m
  probe_timeout: 5s
  tail_lines: 20

storage:
  snapshot_path: %s
  # Set database_path to enable the SQLite event archive:
  # database_path: /var/lib/pzwatch/archive.db

ftp:
  host: %s
  port: %d
  user: %s
  password: "%s"
`

// cmdInit writes a starter config. With --ftp-host it switches the log
// source to FTP and prompts for the password without echoing it.
func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "where to write the config file")
	address := fs.String("address", "127.0.0.1", "game server address")
	port := fs.Int("port", 16261, "game server port")
	logPath := fs.String("log-path", "/server-data/server-console.txt", "console log path")
	snapshotPath := fs.String("snapshot-path", "/var/lib/pzwatch/stats.json", "stats snapshot path")
	ftpHost := fs.String("ftp-host", "", "FTP host for remote log retrieval")
	ftpPort := fs.Int("ftp-port", 21, "FTP port")
	ftpUser := fs.String("ftp-user", "", "FTP user")
	fs.Parse(args)

	// Bail out if already initialized
	if _, err := os.Stat(*configPath); err == nil {
		fmt.Printf("pzwatch is already initialized (%s exists).\n", *configPath)
		fmt.Println("To re-initialize, remove the config file first.")
		return
	}

	source := "file"
	password := ""
	if *ftpHost != "" {
		source = "ftp"
		fmt.Printf("FTP password for %s@%s: ", *ftpUser, *ftpHost)
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			os.Exit(1)
		}
		password = string(pw)
	}

	if dir := filepath.Dir(*configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	content := fmt.Sprintf(configTemplate,
		*address, *port, source, *logPath, *snapshotPath, *ftpHost, *ftpPort, *ftpUser, password)

	// Config may carry FTP credentials, keep it private
	mode := os.FileMode(0644)
	if password != "" {
		mode = 0600
	}
	if err := os.WriteFile(*configPath, []byte(content), mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config: %s\n", *configPath)
}

// cmdServe runs the watcher until SIGINT or SIGTERM.
func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfgPath := *configPath
	if cfgPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			cfgPath = defaultConfigPath
		} else {
			log.Fatalf("No config file found at %s. Use --config to specify one.", defaultConfigPath)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("pzwatch %s starting...", version)
	log.Printf("Watching %s via %s source", cfg.GameAddr(), cfg.Log.Source)

	var archive *storage.Archive
	if cfg.Storage.DatabasePath != "" {
		archive, err = storage.OpenArchive(cfg.Storage.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open archive database: %v", err)
		}
		defer archive.Close()
		log.Printf("Event archive at %s", cfg.Storage.DatabasePath)
	}

	manager := collector.NewManager(cfg, newSource(cfg), storage.NewSnapshotStore(cfg.Storage.SnapshotPath), archive)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	manager.Stop()
	cancel()
	log.Println("Shutdown complete")
}

// cmdStatus runs a one-shot online/offline check.
func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	jsonOut := fs.Bool("json", false, "print the verdict as JSON")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	now := time.Now()
	signals := collector.GatherSignals(newSource(cfg), cfg.GameAddr(), cfg.Status, now)
	verdict := collector.EvaluateStatus(signals, cfg.Status, now)

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	state := "OFFLINE"
	if verdict.Online {
		state = "ONLINE"
	}
	fmt.Printf("%s is %s\n", cfg.GameAddr(), state)
	fmt.Printf("  reason:           %s\n", verdict.Reason)
	fmt.Printf("  port open:        %v\n", verdict.PortOpen)
	if verdict.LastLogAgeMinutes >= 0 {
		fmt.Printf("  log age:          %.1f minutes\n", verdict.LastLogAgeMinutes)
	} else {
		fmt.Printf("  log age:          unknown\n")
	}
	fmt.Printf("  shutdown marker:  %v\n", verdict.ShutdownMarkerSeen)
	fmt.Printf("  recent heartbeat: %v\n", verdict.RecentHeartbeatSeen)
}

// cmdStats prints one player's lifetime record from the snapshot.
func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pzwatch stats <player>")
		os.Exit(1)
	}
	name := fs.Arg(0)

	cfg := loadConfig(*configPath)
	snap := storage.NewSnapshotStore(cfg.Storage.SnapshotPath).Load()
	p, ok := snap.Players[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "No stats recorded for %q\n", name)
		os.Exit(1)
	}

	now := time.Now()
	fmt.Printf("%s (%s)\n\n", p.Player, profile.Classify(p))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Kills\t%d\n", p.Kills)
	fmt.Fprintf(w, "Deaths\t%d\n", p.Deaths)
	fmt.Fprintf(w, "K/D ratio\t%.2f\n", p.KDRatio())
	fmt.Fprintf(w, "Distance\t%d tiles\n", p.DistanceTiles)
	fmt.Fprintf(w, "Items crafted\t%d\n", p.ItemsCrafted)
	fmt.Fprintf(w, "Structures placed\t%d\n", p.StructuresPlaced)
	fmt.Fprintf(w, "Vehicles used\t%d\n", p.VehiclesUsed)
	fmt.Fprintf(w, "Connections\t%d\n", p.Connects)
	fmt.Fprintf(w, "Playtime\t%s\n", storage.FormatPlaytime(p.PlaytimeSeconds))
	fmt.Fprintf(w, "Lives\t%d\n", len(p.Lives))
	if d := p.LongestCompletedLife(); d > 0 {
		fmt.Fprintf(w, "Longest life\t%s\n", storage.FormatPlaytime(int64(d/time.Second)))
	}
	if life := p.CurrentLife(); life != nil {
		fmt.Fprintf(w, "Current life\t%s (life %d)\n",
			storage.FormatPlaytime(int64(life.Duration(now)/time.Second)), life.Sequence)
	}
	if cause, n := p.MostCommonDeathCause(); cause != "" {
		fmt.Fprintf(w, "Usual death\t%s (%d times)\n", cause, n)
	}
	if !p.FirstSeen.IsZero() {
		fmt.Fprintf(w, "First seen\t%s\n", p.FirstSeen.Format("2006-01-02 15:04"))
	}
	if !p.LastSeen.IsZero() {
		fmt.Fprintf(w, "Last seen\t%s\n", p.LastSeen.Format("2006-01-02 15:04"))
	}
	w.Flush()

	if len(p.SkillLevels) > 0 {
		fmt.Println()
		fmt.Println("Skills:")
		skills := make([]string, 0, len(p.SkillLevels))
		for s := range p.SkillLevels {
			skills = append(skills, s)
		}
		sort.Strings(skills)
		sw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, s := range skills {
			fmt.Fprintf(sw, "  %s\tlevel %d\n", s, p.SkillLevels[s])
		}
		sw.Flush()
	}
}

func cmdLeaderboard(args []string) {
	fs := flag.NewFlagSet("leaderboard", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	category := fs.String("category", storage.CategoryKills, "metric to rank by: "+strings.Join(storage.Categories, ", "))
	limit := fs.Int("limit", 10, "how many players to show")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	snap := storage.NewSnapshotStore(cfg.Storage.SnapshotPath).Load()

	entries, err := storage.Leaderboard(snap.Players, *category, *limit, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No players tracked yet.")
		return
	}

	fmt.Printf("Leaderboard: %s\n\n", *category)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tVALUE")
	fmt.Fprintln(w, "----\t------\t-----")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.Rank, e.Player, e.Display)
	}
	w.Flush()
}

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	snap := storage.NewSnapshotStore(cfg.Storage.SnapshotPath).Load()
	sum := profile.Summarize(snap.Players)
	scores := profile.RecommendMods(snap.Players)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Players tracked\t%d\n", sum.Players)
	fmt.Fprintf(w, "Total kills\t%d\n", sum.TotalKills)
	fmt.Fprintf(w, "Total deaths\t%d\n", sum.TotalDeaths)
	fmt.Fprintf(w, "Total distance\t%d tiles\n", sum.TotalDistance)
	fmt.Fprintf(w, "Total playtime\t%s\n", storage.FormatPlaytime(sum.TotalPlaytime))
	if sum.MostCommonDeath != "" {
		fmt.Fprintf(w, "Most common death\t%s\n", sum.MostCommonDeath)
	}
	fmt.Fprintf(w, "Parse warnings\t%d\n", snap.ParseWarnings)
	w.Flush()

	if len(sum.Playstyles) > 0 {
		type styleCount struct {
			name string
			n    int
		}
		styles := make([]styleCount, 0, len(sum.Playstyles))
		for name, n := range sum.Playstyles {
			styles = append(styles, styleCount{name, n})
		}
		sort.Slice(styles, func(i, j int) bool {
			if styles[i].n != styles[j].n {
				return styles[i].n > styles[j].n
			}
			return styles[i].name < styles[j].name
		})

		fmt.Println()
		fmt.Println("Playstyles:")
		sw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, s := range styles {
			fmt.Fprintf(sw, "  %s\t%d\n", s.name, s.n)
		}
		sw.Flush()
	}

	fmt.Println()
	fmt.Println("Mod interest scores:")
	mw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(mw, "  combat\t%.2f\n", scores.Combat)
	fmt.Fprintf(mw, "  building\t%.2f\n", scores.Building)
	fmt.Fprintf(mw, "  crafting\t%.2f\n", scores.Crafting)
	fmt.Fprintf(mw, "  vehicles\t%.2f\n", scores.Vehicles)
	fmt.Fprintf(mw, "  exploration\t%.2f\n", scores.Exploration)
	fmt.Fprintf(mw, "  difficulty\t%.2f\n", scores.Difficulty)
	mw.Flush()
}

// cmdHistory reads the event archive, newest first. With --player it
// also lists that player's archived lives.
func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	player := fs.String("player", "", "only this player's events and lives")
	limit := fs.Int("limit", 25, "how many events to show")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	if cfg.Storage.DatabasePath == "" {
		fmt.Fprintln(os.Stderr, "No archive database configured (set storage.database_path)")
		os.Exit(1)
	}

	archive, err := storage.OpenArchive(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	ctx := context.Background()
	var events []storage.ArchivedEvent
	if *player != "" {
		events, err = archive.PlayerEvents(ctx, *player, *limit)
	} else {
		events, err = archive.RecentEvents(ctx, *limit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(events) == 0 {
		fmt.Println("No archived events.")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tPLAYER\tDETAIL")
		fmt.Fprintln(w, "----\t----\t------\t------")
		for _, e := range events {
			playerCol := e.Player
			if playerCol == "" {
				playerCol = "-"
			}
			detailCol := e.Detail
			if detailCol == "" {
				detailCol = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.OccurredAt.Format("2006-01-02 15:04:05"), e.Kind, playerCol, detailCol)
		}
		w.Flush()
	}

	if *player == "" {
		return
	}
	lives, err := archive.LivesForPlayer(ctx, *player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(lives) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Lives:")
	lw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(lw, "SEQ\tSTARTED\tENDED\tCAUSE\tKILLS\tTILES")
	fmt.Fprintln(lw, "---\t-------\t-----\t-----\t-----\t-----")
	for _, l := range lives {
		ended := "active"
		if l.EndedAt != nil {
			ended = l.EndedAt.Format("2006-01-02 15:04")
		}
		cause := l.DeathCause
		if cause == "" {
			cause = "-"
		}
		fmt.Fprintf(lw, "%d\t%s\t%s\t%s\t%d\t%d\n",
			l.Sequence, l.StartedAt.Format("2006-01-02 15:04"), ended, cause, l.Kills, l.DistanceTiles)
	}
	lw.Flush()
}

// cmdReplay backfills stats from whole historical log files.
func cmdReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	fresh := fs.Bool("fresh", false, "start from empty state instead of the existing snapshot")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pzwatch replay [--fresh] <file>...")
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)

	var archive *storage.Archive
	if cfg.Storage.DatabasePath != "" {
		var err error
		archive, err = storage.OpenArchive(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()
	}

	manager := collector.NewManager(cfg, newSource(cfg), storage.NewSnapshotStore(cfg.Storage.SnapshotPath), archive)
	if !*fresh {
		manager.Restore()
	}

	ctx := context.Background()
	for _, path := range fs.Args() {
		if err := manager.Replay(ctx, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Replayed %d file(s) into %s\n", fs.NArg(), cfg.Storage.SnapshotPath)
}

// cmdSandbox lists SandboxVars settings, or rewrites them with --set.
func cmdSandbox(args []string) {
	fs := flag.NewFlagSet("sandbox", flag.ExitOnError)
	sets := fs.StringArray("set", nil, "update a setting in place, KEY=VALUE")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pzwatch sandbox <file.lua> [--set KEY=VALUE]")
		os.Exit(1)
	}
	path := fs.Arg(0)

	if len(*sets) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		content := string(data)
		for _, kv := range *sets {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				fmt.Fprintf(os.Stderr, "Invalid --set %q, want KEY=VALUE\n", kv)
				os.Exit(1)
			}
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			content, err = serverconfig.UpdateSetting(content, key, value)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Set %s = %s\n", key, value)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	settings, err := serverconfig.LoadSandboxVars(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SETTING\tVALUE")
	fmt.Fprintln(w, "-------\t-----")
	for _, s := range settings {
		fmt.Fprintf(w, "%s\t%s\n", s.Key, s.Value)
	}
	w.Flush()
}

// cmdMods lists or edits the Mods and WorkshopItems lists of a server
// INI.
func cmdMods(args []string) {
	fs := flag.NewFlagSet("mods", flag.ExitOnError)
	add := fs.String("add", "", "mod ID to add")
	remove := fs.String("remove", "", "mod ID to remove")
	workshop := fs.String("workshop", "", "workshop item ID paired with --add or --remove")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pzwatch mods <server.ini> [--add ID | --remove ID] [--workshop WID]")
		os.Exit(1)
	}
	path := fs.Arg(0)

	ini, err := serverconfig.LoadINI(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *add != "" && *remove != "":
		fmt.Fprintln(os.Stderr, "Use either --add or --remove, not both")
		os.Exit(1)
	case *add != "":
		if err := ini.AddMod(*add, *workshop); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := ini.Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added %s\n", *add)
	case *remove != "":
		if err := ini.RemoveMod(*remove, *workshop); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := ini.Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %s\n", *remove)
	default:
		mods := ini.Mods()
		if len(mods) == 0 {
			fmt.Println("No mods configured.")
		} else {
			fmt.Println("Mods:")
			for _, m := range mods {
				fmt.Printf("  %s\n", m)
			}
		}
		if items := ini.WorkshopItems(); len(items) > 0 {
			fmt.Println("Workshop items:")
			for _, it := range items {
				fmt.Printf("  %s\n", it)
			}
		}
	}
}
