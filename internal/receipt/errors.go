package receipt

import "errors"

var (
	// ErrUnavailable means receipt parsing is not configured on this server.
	ErrUnavailable = errors.New("receipt parsing is not configured")

	// ErrUnreadable means the model answered but its answer could not be
	// turned into receipt data.
	ErrUnreadable = errors.New("could not understand receipt")

	// ErrUpstream wraps transport failures and non-2xx answers of the AI API.
	ErrUpstream = errors.New("receipt parser upstream error")
)
