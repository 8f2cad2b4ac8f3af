// Package probe wraps the external media tooling the ingest and archive
// flows delegate to: metadata extraction, frame capture, and container
// transcode. The interfaces keep the callers testable without ffmpeg on
// the machine.
package probe
