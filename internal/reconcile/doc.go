// Package reconcile diffs canonical worker records against the flattened
// remote worker export and builds the minimal set of change events to bring
// the remote side in line.
package reconcile
