// Package email provides the outbound email channel: a Dispatcher
// abstraction whose failures are reported as result values, and an SMTP
// implementation of it.
//
// The email channel is best effort by design. Callers persist their
// durable record first and then attempt dispatch; a failed or skipped send
// is observable through the Result but never propagates as an error, so it
// can never roll back or block the write that preceded it.
package email

import "context"

// Result describes the outcome of a single send attempt.
type Result struct {
	// Success is true when the message was handed to the SMTP server.
	Success bool

	// Skipped is true when the dispatcher is not configured for sending;
	// such results are not failures.
	Skipped bool

	// Err carries the transport error on failure, nil otherwise.
	Err error
}

// Dispatcher sends rendered messages to an address.
//
// Send must never panic or propagate transport errors to the caller;
// outcomes, including failures, are reported in the returned Result.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, htmlBody string) Result
}
