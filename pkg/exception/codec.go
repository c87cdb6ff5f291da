package exception

import "github.com/yanun0323/errors"

// Codec errors
var (
	// ErrCodecEmptyPayload is returned before any parsing when the input is empty.
	ErrCodecEmptyPayload = errors.New("codec: empty payload")
	// ErrCodecMalformed is returned when the bytes are not a single wire map.
	ErrCodecMalformed      = errors.New("codec: malformed payload")
	ErrCodecUnknownType    = errors.New("codec: unknown message type")
	ErrCodecUnknownCommand = errors.New("codec: unknown command")
	ErrCodecUnknownEvent   = errors.New("codec: unknown event")
	ErrCodecMissingField   = errors.New("codec: missing field")
	ErrCodecInvalidField   = errors.New("codec: invalid field")
	// ErrCodecNullOrder is returned when a required order is the null-order sentinel.
	ErrCodecNullOrder = errors.New("codec: null order where an order is required")
)
