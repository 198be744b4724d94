// Package worker is the HTTP client for the secondary store running at
// the worker endpoint.
package worker
