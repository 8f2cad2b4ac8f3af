// Package search composes paginated asset queries.
//
// Most searches translate into one SELECT and one COUNT with identical
// WHERE semantics. Caption search is the exception: whole-word matching
// inside sentence fragments is not expressible as a LIKE, so that path
// scans rows in memory and paginates the filtered list. Callers see one
// Search interface either way.
package search
