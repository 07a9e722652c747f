// Package server implements the optional HTTP API for monitoring a
// dataset build: health, progress, configuration and Prometheus metrics.
package server
