// Package orchestrator wires document loading, mode detection, the walkers
// and the emitters into a single generation run.
package orchestrator
