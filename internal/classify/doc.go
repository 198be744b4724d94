// Package classify derives the transfer plan for one work item: its media
// kind, target filename, MIME type, caption, and delivery peer.
//
// Classification is a pure function of the item's fields so the same
// manifest always produces the same plan.
package classify
