// Package upload pushes a downloaded file to the messaging backend under
// an explicit retry state machine.
//
// The machine has five named states; rate limits, connection loss, and
// mid-transfer cancellation are retried within a fixed attempt budget,
// everything else fails the item immediately. The transport is an
// interface so the machine is tested against scripted outcomes, never a
// live connection.
package upload
