// Package daemon runs the background services: a directory watcher that
// enqueues transcription work for new footage, a bounded transcription
// worker pool, and a single rough-cut worker that regenerates timelines
// once a footage directory is fully transcribed.
package daemon
