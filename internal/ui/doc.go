// Package ui renders the donation progress view in the terminal.
//
// # Architecture
//
// The package is a Bubble Tea program around one pure function:
//
//   - render.go: Render turns a state.Snapshot plus the goal and milestones
//     into the full view. It reads no shared state, so the same output backs
//     the interactive program and `pledge -once`.
//   - app.go: Model, the Bubble Tea model. It holds the last snapshot pushed
//     by the poller and redraws on every push.
//   - keys.go: key bindings, rendered by the bubbles help component.
//   - theme.go, style_helpers.go: color palettes and background helpers.
//
// # Data Flow
//
//	poller ──SetOnChange──> Program.Send(snapshotMsg) ──> Model.Update ──> Render
//	  ^                                                        │
//	  └────────────────────── Refresh (key r) ─────────────────┘
//
// The poller calls back twice per poll: once when it enters the connecting
// state and once with the outcome. A manual refresh that arrives while a poll
// is running is dropped and the footer says so.
//
// # Layout
//
//	pledge  ● Connected to Google Sheets  updated 14:03:10
//
//	 Rp 5,000,000 raised of Rp 20,000,000 · 25.0% · 3/10 milestones
//	 ████████████░░░░░░░░░░░░░░░░░░░░░░░░
//	   ▲  ▲    ▲    △         △
//	 Next: Mr. O'Rourke at Rp 7,000,000 · Rp 2,000,000 to go
//
// The track is the goal; the bar may continue past it to 150% in the
// overflow color. Markers sit at each threshold's share of the goal. The
// numbered milestone list below spreads its index evenly across the track.
//
// # Keys
//
//   - r: poll now
//   - m: show or hide the milestone list
//   - l: show the last lines of the tracker log (see package logtail)
//   - T: cycle theme (saved to prefs)
//   - ?: toggle full help
//   - q, esc, ctrl+c: quit
package ui
