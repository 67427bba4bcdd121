// Package transcription defines the speech-to-text backend contract shared by
// the session layer and concrete clients.
//
// The whisper subpackage implements Provider against an OpenAI-compatible
// inference server such as faster-whisper-server.
package transcription
