// Command fsmdemo runs the blinker state machine.
package main

import (
	"context"
	"os"
	"os/signal"

	envconf "github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	loadDotenv()
	cfg, err := loadConfig(ctx, envconf.OsLookuper())
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *appConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "fsmdemo",
		Short:         "Run and inspect the blinker state machine",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	flags.DurationVar(&cfg.OnTime, "on", cfg.OnTime, "time the output stays on")
	flags.DurationVar(&cfg.OffTime, "off", cfg.OffTime, "time the output stays off")
	flags.DurationVar(&cfg.TickRate, "tick", cfg.TickRate, "control loop period")

	root.AddCommand(
		newBlinkCmd(cfg),
		newDotCmd(cfg),
		newSnapshotCmd(cfg),
	)
	return root
}
