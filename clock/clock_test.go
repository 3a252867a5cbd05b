package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAdvanceWraps(t *testing.T) {
	c := NewManual[uint16](math.MaxUint16 - 3)
	start := c.Now()

	assert.Equal(t, uint16(6), c.Advance(10))
	assert.Equal(t, uint16(10), c.Now()-start)
}

func TestManualSet(t *testing.T) {
	c := NewManual[uint32](0)
	c.Set(1234)
	assert.Equal(t, uint32(1234), c.Now())

	src := c.Source()
	c.Advance(6)
	assert.Equal(t, uint32(1240), src())
}

func TestManualSigned(t *testing.T) {
	c := NewManual[int8](math.MaxInt8)
	start := c.Now()
	c.Advance(2)

	assert.Equal(t, int8(math.MinInt8+1), c.Now())
	assert.Equal(t, int8(2), c.Now()-start)
}

func TestMonotonicSources(t *testing.T) {
	m0, u0, n0 := Millis(), Micros(), Nanos()
	time.Sleep(3 * time.Millisecond)

	require.GreaterOrEqual(t, Millis()-m0, uint32(2))
	require.GreaterOrEqual(t, Micros()-u0, uint32(2000))
	require.GreaterOrEqual(t, Nanos()-n0, uint64(2*time.Millisecond))
}
