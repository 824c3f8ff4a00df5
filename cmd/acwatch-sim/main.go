// Command acwatch-sim drives the AC loss monitor against a simulated
// GPIO line from an interactive console. It runs the exact state machine
// the daemon runs, with a recorder standing in for the privileged
// shutdown helper, so debounce and flicker behavior can be explored
// without hardware.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/acwatch/acwatch-go/cmd/acwatch-sim/interactive"
	"github.com/acwatch/acwatch-go/pkg/config"
)

var flags struct {
	debounce    time.Duration
	waitTimeout time.Duration
	eventLog    string
	logLevel    string
	initial     int
}

func init() {
	flag.DurationVar(&flags.debounce, "debounce", 3*time.Second, "Debounce delay before the shutdown fires")
	flag.DurationVar(&flags.waitTimeout, "wait-timeout", 2*time.Second, "Bounded event wait timeout")
	flag.StringVar(&flags.eventLog, "event-log", "", "Write power events to this file (CBOR)")
	flag.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.IntVar(&flags.initial, "initial", 0, "Initial line level (0 = power present)")
}

func main() {
	flag.Parse()

	logCfg := config.LogConfig{Level: flags.logLevel}

	console, err := interactive.New(interactive.Config{
		Debounce:     flags.debounce,
		WaitTimeout:  flags.waitTimeout,
		EventLog:     flags.eventLog,
		Level:        logCfg.SlogLevel(),
		InitialLevel: flags.initial,
	})
	if err != nil {
		log.Fatalf("Failed to create console: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console.Run(ctx, cancel)
}
