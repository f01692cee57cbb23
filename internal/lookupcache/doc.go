// Package lookupcache persists raw GND search responses so repeated runs over
// the same table do not hit the API again.
//
// Responses live in a SQLite database (modernc.org/sqlite, WAL mode) with a
// per-entry timestamp and are served through an in-memory go-cache tier that
// absorbs duplicate names within a single run. Entries older than the
// configured TTL are ignored on read and removed by Prune. Cache failures are
// logged and treated as misses; they never fail a lookup.
package lookupcache
