// Package app is the composition root of the pledge terminal tracker.
//
// Run loads the TOML config, opens the log file, picks a fetcher (the
// sheet-data endpoint client or the simulator) and hands a Poller to the UI.
// With Options.Once it polls a single time, prints the plain view and returns.
//
// # Polling
//
// Poller owns the only poll routine for its store:
//
//   - Start polls immediately, then on every tick of a fixed interval.
//   - Refresh asks for one extra poll without touching the ticker.
//   - Every trigger goes through the same in-flight guard. A trigger that
//     finds a poll running is dropped, never queued.
//   - Each poll moves the store to connecting, then to connected with the new
//     amount or to error with the previous amount kept.
//   - The render callback runs after both transitions.
//
// Each poll is bounded by the request timeout, which defaults to half the
// interval so a stalled endpoint cannot hold the guard across several ticks.
// Failures are logged and never stop the loop.
package app
