// Package services groups the clients for the external systems a
// transfer run talks to: the Telegram backend, the primary metadata
// store, and the worker that fronts the secondary store and the
// proxy-download endpoint.
package services
