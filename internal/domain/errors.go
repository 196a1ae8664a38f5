package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscribing to a chain's event stream fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrStreamClosed is returned when the remote terminates an event stream
	ErrStreamClosed = errors.New("event stream closed by remote")

	// ErrMalformedFrame is returned for stream frames that cannot be decoded
	ErrMalformedFrame = errors.New("malformed event frame")

	// ErrChainNotMonitored is returned when an operation references a chain
	// outside the monitored set
	ErrChainNotMonitored = errors.New("chain not monitored")
)
