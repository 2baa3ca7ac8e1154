// Package orchestrator wires the field dump loader → field tree → path index
// → mapper → writer pipeline behind a single entry point, with dependency
// injection friendly options for the layout store, clock, logger and metrics.
package orchestrator
