// Package media implements the asset metadata store.
//
// Two parallel tables hold one row per asset: media_proj for active
// production material and media_arch for archived material. The same
// file_id may exist in both with independently editable metadata; that
// duplication is intentional curation, not an error. Table and field names
// reach SQL text only through closed enums, never from request input.
package media
