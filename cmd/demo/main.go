package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
	"github.com/comalice/staticfsm/internal/production"
	"github.com/comalice/staticfsm/realtime"
)

// durations in milliseconds
const (
	redTime    = 600
	greenTime  = 400
	yellowTime = 200
)

type trafficLight struct {
	*staticfsm.Timed[trafficLight, uint32]
}

var (
	traffic = staticfsm.NewDefinition[trafficLight]("traffic-light")
	red     = traffic.Declare("red")
	green   = traffic.Declare("green")
	yellow  = traffic.Declare("yellow")
	// power-up always starts on red
	redBoot = traffic.DeclareEntry(red, "boot")
)

func init() {
	traffic.Define(red, after(redTime, green))
	traffic.Define(green, after(greenTime, yellow))
	traffic.Define(yellow, after(yellowTime, red))
	traffic.Define(redBoot, func(*trafficLight) { fmt.Println("power on") })

	traffic.Edge(red, green, "timer")
	traffic.Edge(green, yellow, "timer")
	traffic.Edge(yellow, red, "timer")
}

func after(d uint32, next staticfsm.State[trafficLight]) staticfsm.StepFunc[trafficLight] {
	return func(l *trafficLight) {
		if l.StateElapsed() >= d {
			l.ChangeState(next)
		}
	}
}

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("demo failed")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, err := production.NewJSONPersister(os.TempDir())
	if err != nil {
		return err
	}

	published := make(chan staticfsm.Transition, 100)
	publisher := production.NewChannelPublisher(published, nil)

	l := &trafficLight{}
	m, err := staticfsm.NewTimed(l, traffic, redBoot, clock.Millis, staticfsm.WithObserver(publisher))
	if err != nil {
		return err
	}
	l.Timed = m

	switch snap, err := persister.Load(ctx, l.Name()); {
	case err == nil:
		if err := l.Restore(snap); err != nil {
			return err
		}
		fmt.Printf("resumed %s after %dms (saved %s)\n", snap.State, snap.Elapsed, snap.Timestamp.Format(time.RFC3339))
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	fmt.Println("DOT:\n" + (&production.DefaultVisualizer{}).ExportDOT(production.GraphOf(traffic), l.State().Name()))

	rt := realtime.NewRuntime(l, realtime.Config{TickRate: 10 * time.Millisecond})
	if err := rt.Start(ctx); err != nil {
		return err
	}

	for cycles := 0; cycles < 12; {
		select {
		case t := <-published:
			if t.Entry {
				continue
			}
			cycles++
			fmt.Printf("--- Cycle %d --- %s -> %s\n", cycles, t.From, t.To)
		case <-ctx.Done():
			fmt.Println("\nShutting down gracefully...")
			cycles = 12
		}
	}
	if err := rt.Stop(); err != nil && !errors.Is(err, realtime.ErrNotStarted) {
		return err
	}
	publisher.Close()

	if err := persister.Save(context.Background(), l.Snapshot()); err != nil {
		return err
	}
	fmt.Println("saved to", persister.Path(l.Name()))
	return nil
}
