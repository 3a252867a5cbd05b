package main

import (
	"context"
	"os"
	"time"

	dotenv "github.com/joho/godotenv"
	"github.com/pkg/errors"
	envconf "github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"

	"github.com/comalice/staticfsm/internal/blinker"
)

// appConfig is read from the environment (and .env) and then overridden
// by command-line flags.
type appConfig struct {
	LogLevel  string `env:"FSMDEMO_LOG_LEVEL, default=info"`
	LogFormat string `env:"FSMDEMO_LOG_FORMAT, default=text"`

	OnTime   time.Duration `env:"FSMDEMO_ON_TIME, default=500ms"`
	OffTime  time.Duration `env:"FSMDEMO_OFF_TIME, default=500ms"`
	TickRate time.Duration `env:"FSMDEMO_TICK_RATE, default=10ms"`
	Duration time.Duration `env:"FSMDEMO_DURATION, default=5s"`

	Ticks       int    `env:"FSMDEMO_TICKS, default=1000"`
	SnapshotDir string `env:"FSMDEMO_SNAPSHOT_DIR, default=."`
	Format      string `env:"FSMDEMO_FORMAT, default=yaml"`
}

func loadConfig(ctx context.Context, lookuper envconf.Lookuper) (appConfig, error) {
	var c appConfig
	if err := envconf.ProcessWith(ctx, &envconf.Config{
		Target:   &c,
		Lookuper: lookuper,
	}); err != nil {
		return c, errors.Wrap(err, "process environment")
	}
	return c, nil
}

// loadDotenv loads .env if present.
func loadDotenv() {
	if err := dotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("could not read .env")
	}
}

// blinkConfig converts the demo timings to the millisecond units of
// clock.Millis.
func (c appConfig) blinkConfig() blinker.Config {
	return blinker.Config{
		OnTime:  uint32(c.OnTime.Milliseconds()),
		OffTime: uint32(c.OffTime.Milliseconds()),
	}
}

func (c appConfig) logger() (*log.Entry, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	switch c.LogFormat {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return nil, errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return log.NewEntry(logger).WithField("app", "fsmdemo"), nil
}
