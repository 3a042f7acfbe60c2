// Package analytics contains the pure aggregation layer: date-bucketed
// flow series, category and vendor breakdowns, balance projection and
// anomaly scanning over an in-memory transaction slice. Nothing in this
// package touches the database or holds state between calls.
package analytics
