// Package metrics defines the Prometheus instrumentation for the dataset
// builder pipeline.
package metrics
