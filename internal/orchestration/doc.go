// Package orchestration owns the submission state machine. The Orchestrator
// mediates writes to the two file slots, composes them into a generation
// request, interprets the outcome and publishes every transition to
// subscribers. Surfaces render published snapshots and never mutate state
// directly.
package orchestration
