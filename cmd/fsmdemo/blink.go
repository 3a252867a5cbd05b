package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
	"github.com/comalice/staticfsm/internal/blinker"
	"github.com/comalice/staticfsm/realtime"
)

func newBlinkCmd(cfg *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blink",
		Short: "Blink for a while on a real-time loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlink(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().DurationVar(&cfg.Duration, "duration", cfg.Duration, "how long to run")
	return cmd
}

func runBlink(ctx context.Context, cfg appConfig) error {
	logger, err := cfg.logger()
	if err != nil {
		return err
	}

	b, err := blinker.New(cfg.blinkConfig(), clock.Millis,
		func(lit bool) {
			logger.WithField("lit", lit).Info("output")
		},
		staticfsm.WithLogger(logger),
		staticfsm.WithObserver(staticfsm.ObserverFunc(func(t staticfsm.Transition) {
			logger.WithFields(log.Fields{
				"from": t.From,
				"to":   t.To,
				"seq":  t.Seq,
			}).Debug("transition")
		})),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	rt := realtime.NewRuntime(b, realtime.Config{
		TickRate: cfg.TickRate,
		Logger:   logger,
	})
	start := time.Now()
	if err := rt.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.WithFields(log.Fields{
		"ticks":   rt.TickNumber(),
		"toggles": b.Toggles(),
		"state":   b.State().Name(),
		"ran":     time.Since(start).Round(time.Millisecond),
	}).Info("done")
	return nil
}
