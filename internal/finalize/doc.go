// Package finalize records a completed delivery in the primary metadata
// store and then, only on success, propagates the fact to the secondary
// store. The second write is deliberately best-effort: the file and the
// primary record are already durable, so a sync miss is logged loudly but
// never fails the item.
package finalize
