// Package ledger persists combination and pipeline state across restarts.
//
// The ledger answers one question: has this location's current transcript
// set already been combined and handed to the downstream pipeline? It keeps
// three tables: the latest combination per location, the per-artifact
// completion log, and the monthly tracking sheet cache. State lives in a
// SQLite database under the log directory; concurrent writers from parallel
// location processing are safe.
package ledger
