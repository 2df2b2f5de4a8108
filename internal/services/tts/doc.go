// Package tts implements the speech synthesis providers. Each provider
// turns a podcast script into an audio artifact; the pipeline strings them
// into a fallback chain in priority order.
package tts
