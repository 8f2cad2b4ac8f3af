// Package jobs implements the project registry.
//
// A job is one production project: a uniquely named row plus directory
// scaffolding on disk. Names follow {yy}_{base}_{revision} with a
// validated base and a revision token that advances a -> b -> ... -> z ->
// a1 -> b1 and so on per year/base prefix. Creation is a best-effort
// multi-step operation: the database insert must succeed, while the
// directory, env-file, and nav-file steps each report their own result
// without rolling anything back.
package jobs
