package app

import "errors"

var (
	// ErrAlreadyVotedToday is returned when a client casts a second fire
	// vote within the same UTC calendar day. The message is shown to end
	// users as-is.
	ErrAlreadyVotedToday = errors.New("You have already voted today. Come back tomorrow!")
)
