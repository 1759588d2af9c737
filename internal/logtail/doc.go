// Package logtail reads the end of the tracker's JSON log file and turns each
// line into a compact one-line summary for the terminal view.
//
// Read keeps a ring buffer of the last N lines so large files are streamed
// once without being held in memory. Parse and Format decode zerolog's JSON
// fields (time, level, message, then everything else sorted by key).
package logtail
