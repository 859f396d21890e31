// Package markers detects and parses the spoken slate…done command
// language in word-timestamped transcripts. Detection is tolerant of
// transcription noise: cue words are matched through a phonetic variant
// table, punctuation and case are ignored, and words without timing are
// skipped entirely.
package markers
