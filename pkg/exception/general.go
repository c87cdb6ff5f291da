package exception

import "github.com/yanun0323/errors"

// General errors
var (
	ErrNilInstance     = errors.New("nil instance")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConnectionClose = errors.New("connection closed")
	ErrNotConnected    = errors.New("not connected")
	ErrUnknownDriver   = errors.New("unknown database driver")
)
