// Package clock supplies time sources for timed state machines.
//
// A Source returns an integral instant. The unit is up to the caller
// (ticks, milliseconds, microseconds); the only requirement is that
// subtracting an earlier instant from a later one, in the instant's own
// integer arithmetic, yields the elapsed duration. Unsigned types satisfy
// this across one wraparound, which is why Millis and Micros return
// uint32 like the millis()/micros() counters of small microcontrollers.
package clock

import "time"

// Instant is the set of integer types usable as timestamps.
type Instant interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~int8 | ~int16 | ~int32 | ~int64 | ~int
}

// Source is a zero-argument time source.
type Source[T Instant] func() T

var epoch = time.Now()

// Millis returns milliseconds since process start, wrapping every ~49.7 days.
func Millis() uint32 {
	return uint32(time.Since(epoch).Milliseconds())
}

// Micros returns microseconds since process start, wrapping every ~71.6 minutes.
func Micros() uint32 {
	return uint32(time.Since(epoch).Microseconds())
}

// Nanos returns nanoseconds since process start.
func Nanos() uint64 {
	return uint64(time.Since(epoch).Nanoseconds())
}
