// Package storage provides the object storage client used to archive sync
// summaries that are too large for the journal's summary column.
package storage
