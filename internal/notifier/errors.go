package notifier

import "errors"

var (
	// ErrUnknownKind is returned by [New] for an unsupported notifier kind.
	ErrUnknownKind = errors.New("unknown notifier kind")

	// ErrInvalidMessage is returned when sender or recipient cannot be set
	// on the outgoing message.
	ErrInvalidMessage = errors.New("invalid email message")

	// ErrDelivery wraps transport failures while talking to the mail server.
	ErrDelivery = errors.New("email delivery failed")
)
