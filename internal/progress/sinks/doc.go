// Package sinks holds the progress consumers: a structured log sink and the
// Prometheus collectors behind the menu_agent_* metrics.
package sinks
