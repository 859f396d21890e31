// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The Prober executes ffprobe with a bounded timeout and decodes the
// result; helper methods on Result expose duration, audio presence, and
// video dimensions. Probe failures are non-fatal to callers: the engine
// treats an unreadable duration as zero.
package ffprobe
