package games

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrRoundAlreadyPlayed   = errors.New("round already played")
	ErrOutOfRange           = errors.New("round out of range")
	ErrInvalidMove          = errors.New("invalid move")
)
