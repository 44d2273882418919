// Package source implements the client for the discovery platform's export
// API: cached token acquisition, full-collection listings (sites, types,
// software) and the cursor-paginated asset fetcher.
//
// Every listing dialect is adapted into the single Page{Items, Next, Total}
// shape so the fetch loop stays dialect-agnostic. Failures follow the
// engine's taxonomy: AuthorizationError is terminal and aborts the run,
// APIError is recoverable and recorded against the phase that hit it.
package source
