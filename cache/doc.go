// Package cache implements the session page cache of the discussion list.
//
// # Overview
//
// A PageCache keeps one snapshot per page request inside a SessionStorage,
// the per-session key/value store that outlives the in-memory list state
// (for example when the user opens a discussion and comes back). Each
// snapshot holds the ordered discussion identifiers, the total result count,
// the page size and a capture timestamp.
//
// # Keys
//
// Keys are built by a KeySerializer from a Request (route path, include
// list, filter object, sort, page size) and a page number. The default
// serializer writes a canonical JSON-like document with a fixed field order
// and sorted map keys:
//
//	key := cache.NewDefaultKeySerializer(cache.DefaultPrefix).SerializeKey(req, 2)
//
// Two requests with identical fingerprints are interchangeable.
//
// # Lifecycle
//
//   - Save stores a snapshot; empty pages are never stored. Roughly one
//     write in ten runs Cleanup. A quota failure runs Cleanup and retries
//     once; a second failure drops the write.
//   - Restore resolves every identifier through a Resolver. Absent,
//     malformed, empty or expired entries are misses (expired entries are
//     removed), and so is any snapshot with an identifier the resolver no
//     longer knows.
//   - Invalidate removes a single page, Cleanup evicts expired entries and
//     then the oldest entries beyond MaxEntries.
//
// # Error Handling
//
// The cache is a pure optimization. No method returns an error; failures
// degrade to a miss or a no-op and are logged only when Config.Debug is set.
package cache
