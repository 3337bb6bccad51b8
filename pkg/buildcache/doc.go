/*
Package buildcache provides the SQLite-backed incremental build cache for
quill. It remembers a fingerprint of every page written during a build, so a
rebuild can skip writing pages whose rendered output has not changed and
prune records for content that no longer exists.

The cache is an optimization only: deleting the database simply makes the
next build write every page again.
*/
package buildcache
