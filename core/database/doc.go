// Package database provides the optional MySQL connection used by the run
// journal. Engine state never lives here; a sync run works fully without a
// database, it just leaves no journal entry behind.
package database
