// Package session holds per-client mutable state: the cart of selected
// assets, the ingest queue cursor, and copy-progress records. State is
// reached through a small store abstraction so the HTTP layer's cookie
// mechanics stay out of the data model.
package session
