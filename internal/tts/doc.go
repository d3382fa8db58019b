// Package tts turns agent replies into speech.
package tts
