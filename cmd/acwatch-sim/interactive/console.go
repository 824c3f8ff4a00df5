// Package interactive provides the interactive command-line interface
// for the AC loss simulator.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/acwatch/acwatch-go/pkg/gpio"
	"github.com/acwatch/acwatch-go/pkg/monitor"
	"github.com/acwatch/acwatch-go/pkg/powerlog"
	"github.com/acwatch/acwatch-go/pkg/shutdown"
)

// Config holds the simulator settings.
type Config struct {
	// Debounce is the confirmation delay before the shutdown fires.
	Debounce time.Duration

	// WaitTimeout is the monitor's event wait timeout.
	WaitTimeout time.Duration

	// EventLog is the power event log path; empty disables it.
	EventLog string

	// Level is the console log level.
	Level slog.Level

	// InitialLevel is the starting line level (0 = power present).
	InitialLevel int
}

// Console drives a monitor against a simulated line from a command loop.
type Console struct {
	cfg    Config
	line   *gpio.Sim
	rec    *shutdown.Recorder
	rl     *readline.Instance
	logger *slog.Logger

	fileLog *powerlog.FileLogger

	mu        sync.Mutex
	mon       *monitor.Monitor
	runCancel context.CancelFunc
	runDone   chan struct{}
}

// New creates a new interactive console. The simulated line and the
// shutdown recorder live for the whole console session; the monitor is
// recreated on reset.
func New(cfg Config) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sim> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &Console{
		cfg:  cfg,
		line: gpio.NewSim(cfg.InitialLevel),
		rec:  shutdown.NewRecorder(),
		rl:   rl,
	}
	c.logger = slog.New(slog.NewTextHandler(rl.Stdout(), &slog.HandlerOptions{
		Level: cfg.Level,
	}))

	if cfg.EventLog != "" {
		fileLog, err := powerlog.NewFileLogger(cfg.EventLog)
		if err != nil {
			rl.Close()
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		c.fileLog = fileLog
	}

	return c, nil
}

// Run starts the monitor and enters the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()
	if c.fileLog != nil {
		defer c.fileLog.Close()
	}

	if err := c.startMonitor(ctx); err != nil {
		fmt.Fprintf(c.rl.Stderr(), "Failed to start monitor: %v\n", err)
		cancel()
		return
	}

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "loss", "l":
			c.cmdLoss()

		case "restore", "r":
			c.cmdRestore()

		case "flicker", "f":
			c.cmdFlicker(args)

		case "status", "s":
			c.cmdStatus()

		case "reset":
			c.cmdReset(ctx)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
AC Loss Simulator Commands:
  loss      (l)   - Assert power loss (line -> 1)
  restore   (r)   - Restore power (line -> 0)
  flicker <ms>    - Brief loss: assert, restore after <ms> milliseconds
  status    (s)   - Show monitor state and counters
  reset           - Restart the monitor after a confirmed loss
  help      (?)   - Show this help
  quit      (q)   - Exit simulator

The monitor behaves exactly like acwatch on real hardware: a loss must
survive the debounce delay before the shutdown fires, and the action
here is a recorder instead of the privileged helper.`)
}

// startMonitor builds a fresh monitor on the shared line and runs it on
// its own goroutine.
func (c *Console) startMonitor(ctx context.Context) error {
	monCfg := monitor.Config{
		DebounceDelay:    c.cfg.Debounce,
		EventWaitTimeout: c.cfg.WaitTimeout,
		Logger:           c.logger,
	}
	// Only set when non-nil to avoid the typed-nil interface issue.
	if c.fileLog != nil {
		monCfg.EventLog = c.fileLog
	}

	mon, err := monitor.New(c.line, c.rec, monCfg)
	if err != nil {
		return err
	}

	runCtx, runCancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.mon = mon
	c.runCancel = runCancel
	c.runDone = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		err := mon.Run(runCtx)
		switch {
		case err == nil && mon.State() == monitor.StateShuttingDown:
			fmt.Fprintf(c.rl.Stdout(), "\n[%s] Monitor terminated: power loss confirmed (type 'reset' to start over)\n",
				time.Now().Format("15:04:05"))
		case err != nil && !errors.Is(err, context.Canceled):
			fmt.Fprintf(c.rl.Stdout(), "\n[%s] Monitor stopped: %v\n",
				time.Now().Format("15:04:05"), err)
		default:
			return
		}
		c.rl.Refresh()
	}()

	return nil
}

// cmdLoss asserts a power loss.
func (c *Console) cmdLoss() {
	if v, _ := c.line.Value(); v == 1 {
		fmt.Fprintln(c.rl.Stdout(), "Line already asserted")
		return
	}
	c.line.Set(1)
	fmt.Fprintln(c.rl.Stdout(), "Power loss asserted (line -> 1)")
}

// cmdRestore restores power.
func (c *Console) cmdRestore() {
	if v, _ := c.line.Value(); v == 0 {
		fmt.Fprintln(c.rl.Stdout(), "Power already present")
		return
	}
	c.line.Set(0)
	fmt.Fprintln(c.rl.Stdout(), "Power restored (line -> 0)")
}

// cmdFlicker simulates a brief mains drop.
func (c *Console) cmdFlicker(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: flicker <ms>")
		fmt.Fprintf(c.rl.Stdout(), "  A flicker shorter than the debounce (%s) must not shut down\n", c.cfg.Debounce)
		return
	}

	ms, err := strconv.Atoi(args[0])
	if err != nil || ms <= 0 {
		fmt.Fprintf(c.rl.Stdout(), "Invalid duration: %s\n", args[0])
		return
	}

	if v, _ := c.line.Value(); v == 1 {
		fmt.Fprintln(c.rl.Stdout(), "Line already asserted; restore first")
		return
	}

	c.line.Set(1)
	go func() {
		time.Sleep(time.Duration(ms) * time.Millisecond)
		c.line.Set(0)
	}()
	fmt.Fprintf(c.rl.Stdout(), "Flicker: loss for %dms\n", ms)
}

// cmdStatus shows the monitor state and counters.
func (c *Console) cmdStatus() {
	c.mu.Lock()
	mon := c.mon
	c.mu.Unlock()

	level, _ := c.line.Value()
	levelDesc := "power present"
	if level == 1 {
		levelDesc = "power lost"
	}
	stats := mon.Stats()

	fmt.Fprintln(c.rl.Stdout(), "\nSimulation Status")
	fmt.Fprintln(c.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(c.rl.Stdout(), "  Monitor State:  %s\n", mon.State())
	fmt.Fprintf(c.rl.Stdout(), "  Line Level:     %d (%s)\n", level, levelDesc)
	fmt.Fprintf(c.rl.Stdout(), "  Debounce:       %s\n", c.cfg.Debounce)
	fmt.Fprintf(c.rl.Stdout(), "  Edges:          %d\n", stats.Edges)
	fmt.Fprintf(c.rl.Stdout(), "  Debounces:      %d\n", stats.Debounces)
	fmt.Fprintf(c.rl.Stdout(), "  Aborts:         %d\n", stats.Aborts)
	fmt.Fprintf(c.rl.Stdout(), "  Timeouts:       %d\n", stats.Timeouts)
	fmt.Fprintf(c.rl.Stdout(), "  Shutdowns:      %d\n", c.rec.Count())
	fmt.Fprintln(c.rl.Stdout())
}

// cmdReset stops the current monitor run and starts a fresh one. The
// line level and the shutdown counter carry over.
func (c *Console) cmdReset(ctx context.Context) {
	c.mu.Lock()
	cancel := c.runCancel
	done := c.runDone
	c.mu.Unlock()

	// A debounce in progress finishes its sleep before the run stops.
	fmt.Fprintln(c.rl.Stdout(), "Stopping current monitor...")
	cancel()
	<-done

	if err := c.startMonitor(ctx); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Failed to restart monitor: %v\n", err)
		return
	}
	fmt.Fprintln(c.rl.Stdout(), "Monitor restarted (state WATCHING)")
}
