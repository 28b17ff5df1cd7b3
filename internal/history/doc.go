// Package history serves the graph feeds behind the charting UI and
// records incoming value samples.
//
// Two feeds exist: the raw latest-value samples and the per-day
// aggregates (value, min, avg, max). Timestamps are stored as epoch
// seconds and served as epoch milliseconds. The daily aggregate rows
// themselves are produced by the history collector outside this
// process; this package only reads them.
package history
