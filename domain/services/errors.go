package services

import "errors"

// Expected user-facing conditions. Handlers match these with errors.Is
// and reply with plain messages rather than logging them as errors.
var (
	ErrAlreadyLinked        = errors.New("account is already linked")
	ErrNotLinked            = errors.New("account is not linked")
	ErrChallengeNotFound    = errors.New("challenge token not found in profile")
	ErrExternalUserNotFound = errors.New("DMOJ user not found")
)
