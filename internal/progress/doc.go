// Package progress carries run lifecycle and fetch events from the worker to
// observers. Emitting never blocks the pipeline: events are buffered, batched
// on a background goroutine and handed to sinks such as the structured log
// or the Prometheus collectors.
package progress
