// Package journal persists one row per synchronization run: timing, upload
// and error totals, final status, and the result summary as JSON.
//
// The journal is a best-effort record. It is backed by an optional MySQL
// connection; when the database is not configured every operation is a
// no-op and the sync itself is unaffected. Summaries larger than the inline
// limit are archived whole to object storage and the row keeps the object
// key plus a truncated copy.
package journal
