// Package ssb provides access to Statistics Norway household-budget data.
//
// The package wraps the PxWeb API v0 (data.ssb.no): a table is queried with a
// JSON POST body and answers in the self-describing json-stat2 format, which
// is flattened here into an immutable [Dataset] of [SpendingRecord] values.
//
// [Store] is the entry point used by the tools. It keeps the last complete
// dataset per (table, period) in memory, persists fetched datasets in a
// SQLite [Cache], and only touches the network when both are missing or past
// their TTL. Refreshes replace the whole dataset atomically, so concurrent
// readers always see a single consistent fetch. When a fetch fails and a
// stale dataset exists, the store can serve it as a logged, configurable
// fallback (see [WithStaleFallback]).
package ssb
