// Package pipeline wires the connectors, the reconciliation engine and the
// sinks into the three runnable sync jobs: the worker export, the report
// extract and the worker update.
package pipeline
