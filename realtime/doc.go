// Package realtime drives state machines from a fixed-rate loop.
//
// The engine itself never schedules anything: the host calls Update once
// per iteration of its control loop. Runtime is that loop for hosts that
// do not already have one, calling Update on every tick of a time.Ticker.
//
//	rt := realtime.NewRuntime(blinker, realtime.Config{
//		TickRate: time.Millisecond, // 1 kHz control loop
//	})
//	rt.Start(ctx)
//	defer rt.Stop()
//
// Ticks never overlap. A panic in a step function is recovered, logged and
// counted, and the loop keeps running, so one faulty state body does not
// bring down the process.
package realtime
