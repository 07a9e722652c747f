// Package scan collects candidate source files from the configured
// domain directories, filtered by extension and the set of basenames
// already present in the ledger.
package scan
