// Package manifest parses the work-item payload a run receives.
//
// The payload is a JSON array of transfer requests; a bare JSON object is
// accepted and treated as a one-element array. Items are immutable once
// read.
package manifest
