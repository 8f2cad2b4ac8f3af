// Package archive moves assets from the active table into the archive
// table, copying each file into the archive tree's category subdirectory.
// The run is per-file best-effort: one bad file lands in the stats, the
// rest keep going.
package archive
