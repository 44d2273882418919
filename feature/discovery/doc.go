// Package discovery wires the synchronization engine into the application:
// it owns the service that runs and journals syncs, the HTTP handler that
// triggers them, and the loader glue that registers the feature.
//
// # Components
//
//   - Service: serializes runs, maps terminal failures to suspension
//     statuses, journals every run.
//   - Handler: exposes the sync trigger, credential validation, and the
//     run listing.
//   - Feature: registers the above with the application loader.
//
// # HTTP Endpoints
//
//   - POST /discovery/sync : run a full synchronization.
//   - POST /discovery/validate : check source and catalog access.
//   - GET /discovery/runs : list recent runs from the journal.
package discovery
