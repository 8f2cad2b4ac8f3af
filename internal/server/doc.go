// Package server exposes the JSON API the browser UI consumes: search,
// cart, ingestion queue, jobs, and archive migration. Every mutating
// response uses the structured {"success": ..., "error"/"warning": ...}
// envelope; metadata mutations additionally require the configured shared
// secret, checked batch-wide.
package server
