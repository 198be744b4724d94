// Package telegram wraps the MTProto client behind the small transport
// surface the rest of courier needs: a managed session with
// persisted-to-ephemeral fallback, and file delivery with progress.
package telegram
