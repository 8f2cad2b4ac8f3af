// Package ingest implements the archive ingestion queue.
//
// Files added to the queue wait as Pending items until an operator fills
// in their metadata and submits them into the media store. Each item moves
// through a small status machine; completed submissions land on an undo
// stack so a mistaken ingest can be rolled back, removing both the store
// row and the copied file. Queue, undo stack, and per-category field
// templates persist to JSON side files so a session survives restart.
package ingest
