// Package audio decodes PCM WAV data and plays it through the platform
// audio device using oto/v3. Playback blocks until the sound has drained
// or the context is cancelled.
package audio
