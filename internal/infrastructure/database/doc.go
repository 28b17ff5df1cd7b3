// Package database provides the SQLite connection layer for HouseAgent.
//
// It wraps database/sql with the pragmas the rest of the system assumes
// (foreign keys on, WAL journalling, busy timeout) and applies embedded
// schema migrations on startup. All persistent state lives here: locations,
// plugins, devices, values, the reference tables, events with their
// trigger/condition/action rows, and the value history feeds.
//
// The connection pool is limited to one connection. SQLite permits a
// single writer and the management plane's write volume is low, so the
// simplicity is worth more than the parallelism.
package database
