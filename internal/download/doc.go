// Package download acquires a remote asset into the local working slot.
//
// Acquisition runs through an ordered chain of strategies per media kind.
// Each strategy either produces the file, reports a hard block (give up on
// this strategy, let the next one try), or exhausts its own retry budget.
// The chain is fixed at construction; adding or reordering strategies is a
// data change.
package download
