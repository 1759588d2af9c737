// Package state holds the single source of truth for the donation display.
//
// # Overview
//
// Store owns the last successfully observed amount and the connection status.
// The poller writes to it, the renderer reads snapshots from it, and nothing
// else in the program keeps a copy of the amount.
//
//	Poller:                        Renderer:
//	┌────────────────┐            ┌─────────────────┐
//	│ BeginPoll()    │            │                 │
//	│ FetchAmount()  │            │                 │
//	│ Update(a, err) │───────────→│ Snapshot()      │
//	└────────────────┘  (mutex)   │ progress.Derive │
//	                              └─────────────────┘
//
// # Status Transitions
//
//	unset ──BeginPoll──→ connecting ──Update(a, nil)──→ connected
//	                         │
//	                         └──────Update(_, err)────→ error
//
// Both connected and error go back to connecting on the next BeginPoll.
//
// # Update Semantics
//
//	// Success: amount replaced, error cleared
//	store.Update(5000000, nil)
//	→ snapshot.Amount = 5000000
//	→ snapshot.Status = connected
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Failure: amount kept, error recorded
//	store.Update(0, err)
//	→ snapshot.Amount = <unchanged>
//	→ snapshot.Status = error
//	→ snapshot.ConsecutiveFailures++
//
// The amount is never reset by a failure, so the display degrades to
// "last known value plus an error indicator" instead of blanking.
//
// # Testing Considerations
//
// The zero Store is ready to use; its Snapshot reports StatusUnset and a zero
// amount, which is also what every process restart starts from.
package state
