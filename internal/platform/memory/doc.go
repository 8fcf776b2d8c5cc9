// Package memory provides in-process implementations of the store
// interfaces. User records live in mutex-guarded shards keyed by user id,
// so operations against the same user serialize while unrelated users
// never contend on a shared lock. The package backs unit tests and
// single-process deployments that do not need PostgreSQL.
package memory
