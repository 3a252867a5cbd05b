package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/staticfsm"
	"github.com/comalice/staticfsm/clock"
)

type door struct {
	*staticfsm.Timed[door, uint32]
}

var (
	doorDef    = staticfsm.NewDefinition[door]("door")
	doorOpen   = doorDef.Declare("open")
	doorClosed = doorDef.Declare("closed")
)

func init() {
	doorDef.Define(doorOpen, func(d *door) {
		if d.StateElapsed() >= 3 {
			d.ChangeState(doorClosed)
		}
	})
	doorDef.Define(doorClosed, func(d *door) {})
}

func TestRecorderAndDrive(t *testing.T) {
	rec := &Recorder{}
	c := clock.NewManual[uint32](0)
	d := &door{}
	m, err := staticfsm.NewTimed(d, doorDef, doorOpen, c.Source(), staticfsm.WithObserver(rec))
	require.NoError(t, err)
	d.Timed = m

	var at []uint32
	Drive[uint32](d, c, 5, 1, func(tick int, now uint32) {
		at = append(at, now)
	})

	assert.Equal(t, []uint32{0, 1, 2, 3, 4}, at)
	assert.Equal(t, uint32(5), c.Now())
	assert.Equal(t, []string{"open", "closed"}, rec.Targets())

	got := rec.Transitions()
	require.Len(t, got, 2)
	assert.Equal(t, "open", got[1].From)

	rec.Reset()
	assert.Empty(t, rec.Transitions())
}
