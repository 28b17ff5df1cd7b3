// Package influxdb mirrors value updates to an InfluxDB v2 server.
//
// SQLite remains the source of truth for the graph feeds; the mirror is
// optional (enabled via config) and exists for long-term retention and
// external dashboards. Writes are batched and asynchronous, so a slow or
// absent InfluxDB never blocks the value update path.
package influxdb
