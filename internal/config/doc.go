// Package config loads, normalizes, and validates mediadepot configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DEPOT_ALL and MEDIADEPOT_ADMIN_KEY. The Config type centralizes every knob
// the daemon and CLI need, so the depot root, database locations, and page
// sizes are discovered in one pass.
//
// The depot root is the one hard requirement: every persisted path in the
// media and job databases is stored against the $DEPOT_ALL placeholder, and
// nothing can be resolved without the real root. A missing root is a startup
// error, never a per-call one.
package config
