// Package whisper transcribes media through either the local whisper CLI
// or the hosted OpenAI API. Both backends write the same artifact pair
// next to the media file: a word-timestamped JSON transcript and an SRT.
package whisper
