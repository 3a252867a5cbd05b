package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
	"github.com/comalice/staticfsm/internal/blinker"
	"github.com/comalice/staticfsm/internal/production"
	"github.com/comalice/staticfsm/testutil"
)

func newSnapshotCmd(cfg *appConfig) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Simulate the blinker on a manual clock and persist its snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runSnapshot(cmd.Context(), *cfg, name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "ticks to simulate")
	flags.StringVar(&cfg.SnapshotDir, "dir", cfg.SnapshotDir, "directory to write the snapshot into")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "snapshot format (json, yaml)")
	flags.StringVar(&name, "name", "blinker", "machine name")
	return cmd
}

func newPersister(format, dir string) (interface {
	production.Persister
	Path(string) string
}, error) {
	switch format {
	case "json":
		return production.NewJSONPersister(dir)
	case "yaml":
		return production.NewYAMLPersister(dir)
	default:
		return nil, errors.Errorf("unknown snapshot format %q", format)
	}
}

func runSnapshot(ctx context.Context, cfg appConfig, name string) (string, error) {
	logger, err := cfg.logger()
	if err != nil {
		return "", err
	}
	p, err := newPersister(cfg.Format, cfg.SnapshotDir)
	if err != nil {
		return "", err
	}

	c := clock.NewManual[uint32](0)
	b, err := blinker.New(cfg.blinkConfig(), c.Source(), nil,
		staticfsm.WithName(name),
		staticfsm.WithLogger(logger),
	)
	if err != nil {
		return "", err
	}
	testutil.Drive[uint32](b, c, cfg.Ticks, uint32(cfg.TickRate.Milliseconds()), nil)

	snap := b.Snapshot()
	if err := p.Save(ctx, snap); err != nil {
		return "", err
	}
	logger.WithFields(log.Fields{
		"state":   snap.State,
		"elapsed": snap.Elapsed,
		"toggles": b.Toggles(),
	}).Info("snapshot saved")
	return p.Path(name), nil
}
