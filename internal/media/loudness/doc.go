// Package loudness measures integrated loudness with ffmpeg's loudnorm
// filter and renders _normalized siblings at the reference level. All
// failures are non-fatal to callers: the engine falls back to the
// original file.
package loudness
