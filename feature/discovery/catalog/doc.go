// Package catalog is the write side of the synchronization: the service
// management catalog that receives discovered sites, software and hardware.
//
// # Components
//
//   - Client: REST client for the catalog's upsert, batch upload and
//     reference lookup endpoints.
//   - Collect / CollectAll: reconcile batch submissions that may complete
//     inline or asynchronously behind a polling handle. Callers receive a
//     uniform Outcome either way.
//
// # Async Uploads
//
// Large batch uploads return an async handle instead of an inline result.
// AwaitAsyncResult polls the handle's result URL until the reported progress
// reaches 100 percent, then decodes the final result. Polling is bounded by
// a per-batch timeout; exceeding it yields ErrPollTimeout for that batch
// only, never aborting sibling batches.
//
// # Authorization Failures
//
// A 401 or 403 from any catalog endpoint is terminal for the whole run and
// surfaces as AuthorizationError. Everything else is recoverable and folded
// into the batch's error list.
package catalog
