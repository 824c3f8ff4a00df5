// acwatch watches a GPIO line for AC power loss and invokes the board's
// shutdown helper once a loss survives the debounce delay. It is meant to
// run as a long-lived service restarted by the init system on failure.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/acwatch/acwatch-go/pkg/config"
	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/hostinfo"
	"github.com/acwatch/acwatch-go/pkg/monitor"
	"github.com/acwatch/acwatch-go/pkg/powerlog"
	"github.com/acwatch/acwatch-go/pkg/shutdown"
)

const daemonVersion = "1.0.0"

var flags struct {
	configFile string
	boardName  string
	chip       string
	line       int
	eventLog   string
	logLevel   string
	dryRun     bool
}

func init() {
	flag.StringVar(&flags.configFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.boardName, "board", "", "Board profile name (x728, x708)")
	flag.StringVar(&flags.chip, "chip", "", "GPIO chip, overrides the profile")
	flag.IntVar(&flags.line, "line", -1, "GPIO line offset, overrides the profile")
	flag.StringVar(&flags.eventLog, "event-log", "", "Power event log path (.plog)")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.dryRun, "dry-run", false, "Log the shutdown instead of invoking it")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))

	logger.Info("acwatch starting",
		"version", daemonVersion,
		"board", cfg.Board,
		"chip", cfg.GPIO.Chip,
		"line", *cfg.GPIO.Line,
		"dry_run", flags.dryRun)

	sessionID := uuid.NewString()

	var fileLog *powerlog.FileLogger
	if cfg.Log.EventLog != "" {
		fileLog, err = powerlog.NewFileLogger(cfg.Log.EventLog)
		if err != nil {
			log.Fatalf("Failed to open event log: %v", err)
		}
		logger.Info("event log open", "path", cfg.Log.EventLog, "session_id", sessionID)
	}

	line, err := gpio.Request(cfg.LineConfig())
	if err != nil {
		log.Fatalf("Failed to request GPIO line: %v", err)
	}

	initial, err := line.Value()
	if err != nil {
		log.Fatalf("Failed to read initial line value: %v", err)
	}
	if initial == 1 {
		logger.Warn("line already asserted at startup, waiting for an edge")
	}

	if fileLog != nil {
		fileLog.Log(sessionEvent(cfg, sessionID, initial, logger))
	}

	monCfg := monitor.Config{
		DebounceDelay:    cfg.Monitor.Debounce(),
		EventWaitTimeout: cfg.Monitor.WaitTimeout(),
		SessionID:        sessionID,
		Logger:           logger,
	}
	// Only set when non-nil to avoid the typed-nil interface issue.
	if fileLog != nil {
		monCfg.EventLog = fileLog
	}

	mon, err := monitor.New(line, buildAction(cfg, logger), monCfg)
	if err != nil {
		log.Fatalf("Failed to create monitor: %v", err)
	}

	if fileLog != nil {
		// The confirmed-loss trail must reach disk before the helper
		// cuts power.
		mon.OnStateChange(func(_, newState monitor.State) {
			if newState == monitor.StateShuttingDown {
				fileLog.Sync()
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, stopping", "signal", sig.String())
		cancel()
	}()

	runErr := mon.Run(ctx)

	if fileLog != nil {
		fileLog.Sync()
		fileLog.Close()
	}
	line.Close()

	switch {
	case runErr == nil && mon.State() == monitor.StateShuttingDown:
		logger.Info("shutdown handed off, exiting", "session_id", sessionID)
	case runErr == nil, errors.Is(runErr, context.Canceled):
		logger.Info("monitor stopped", "session_id", sessionID)
	default:
		logger.Error("monitor failed", "error", runErr)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration: file (or built-in default), then
// flag overrides, then profile and built-in defaults.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if flags.boardName != "" {
		cfg.Board = flags.boardName
	}
	if flags.chip != "" {
		cfg.GPIO.Chip = flags.chip
	}
	if flags.line >= 0 {
		line := flags.line
		cfg.GPIO.Line = &line
	}
	if flags.eventLog != "" {
		cfg.Log.EventLog = flags.eventLog
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildAction returns the shutdown action: the configured helper, or a
// logging stand-in under -dry-run.
func buildAction(cfg *config.Config, logger *slog.Logger) shutdown.Action {
	cmd := cfg.Shutdown.Action()
	if flags.dryRun {
		return &dryRunAction{cmd: cmd, logger: logger}
	}
	return cmd
}

// dryRunAction logs what would have been invoked instead of invoking it.
type dryRunAction struct {
	cmd    *shutdown.Command
	logger *slog.Logger
}

func (a *dryRunAction) Invoke(ctx context.Context) error {
	a.logger.Warn("dry run: shutdown suppressed", "command", a.cmd.String())
	return nil
}

func (a *dryRunAction) String() string {
	return a.cmd.String() + " (dry run)"
}

// sessionEvent records the effective configuration at daemon start so a
// trace can be interpreted without the config file.
func sessionEvent(cfg *config.Config, sessionID string, initial int, logger *slog.Logger) powerlog.Event {
	ev := powerlog.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Category:  powerlog.CategorySession,
		Session: &powerlog.SessionEvent{
			Version:      daemonVersion,
			Board:        cfg.Board,
			Chip:         cfg.GPIO.Chip,
			Line:         *cfg.GPIO.Line,
			ActiveLow:    cfg.LineConfig().ActiveLow,
			Debounce:     cfg.Monitor.Debounce(),
			InitialLevel: initial,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hi, err := hostinfo.Collect(ctx)
	if err != nil {
		logger.Warn("host info unavailable", "error", err)
		return ev
	}
	ev.Session.Host = &powerlog.HostInfo{
		Hostname:        hi.Hostname,
		OS:              hi.OS,
		Platform:        hi.Platform,
		PlatformVersion: hi.PlatformVersion,
		KernelVersion:   hi.KernelVersion,
		KernelArch:      hi.KernelArch,
		UptimeSeconds:   hi.UptimeSeconds,
	}
	return ev
}
