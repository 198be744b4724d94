// Package runner sequences the per-item pipeline: classify, download,
// upload, finalize. Items run strictly one at a time with a fixed
// cooldown between them so the backend's per-peer rate limits stay
// predictable. One item's failure never aborts the batch.
package runner
