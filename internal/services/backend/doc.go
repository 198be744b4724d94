// Package backend is the HTTP client for the primary metadata store.
package backend
