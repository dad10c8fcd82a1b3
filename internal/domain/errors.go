package domain

import "errors"

var (
	// ErrNoSession is returned when a console action runs before a session exists.
	ErrNoSession = errors.New("no live session")
	// ErrActionInFlight is returned when a second host action starts while one is pending.
	ErrActionInFlight = errors.New("another action is already in flight")
	// ErrNotJoined is returned when a student acts before joining a session.
	ErrNotJoined = errors.New("join the session first")
	// ErrSubmissionLocked is returned when an answer is submitted while the view is locked.
	ErrSubmissionLocked = errors.New("submission locked for the current question")
)
