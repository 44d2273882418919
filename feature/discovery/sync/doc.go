// Package sync is the discovery synchronization engine: it walks the
// source's inventory, deduplicates raw assets into a normalized
// Category/Product/Configuration Item graph, submits the graph to the
// catalog in bounded batches, and aggregates per-phase counts and errors.
//
// # Run Shape
//
// One run is one Orchestrator.Run call. Phases execute strictly in
// sequence, sites then software then assets, because each later phase
// resolves references built by the earlier ones. Within a phase, pages are
// processed one at a time; the async results of submitted batches are
// collected concurrently at phase end.
//
// # Deduplication
//
// The Index owns the run's canonical records. Keys are normalized names
// (lower-cased, punctuation collapsed to underscores, capped at 128
// characters) and the first record created for a key is the only one the
// run ever sees. Two assets resolving to the same brand/model/category land
// under the same physical Product object, which is what makes repeated
// syncs idempotent on the catalog side.
//
// # Failure Model
//
// Only the two authorization error kinds abort a run. Everything else,
// failed listings, unmappable assets, rejected batches, poll timeouts, is
// recorded in the Result against its phase and the run continues. A result
// carrying both upload counts and errors is a normal outcome.
package sync
