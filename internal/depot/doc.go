// Package depot resolves symbolic depot paths.
//
// Persisted media and job paths carry the $DEPOT_ALL placeholder instead of
// a machine-specific root, so the databases stay portable. The Resolver
// expands the placeholder to an absolute path, converts absolute paths back
// to symbolic form for persistence, and decorates assets with servable
// relative paths, thumbnail choices, and a viewability flag.
package depot
