package service

import (
	"errors"
	"fmt"
)

// ErrPageLimit reports a friends walk that did not reach the terminal cursor
// within the configured page limit. The remote cursor is misbehaving or the
// limit is set too low for the account.
var ErrPageLimit = errors.New("friend pagination exceeded the page limit")

// UnfollowFailure records one friendship-destroy call that failed.
type UnfollowFailure struct {
	ID     string
	Handle string
	Err    error
}

// PartialUnfollowError reports an unfollow run in which some destroy calls
// failed. Friendships destroyed before and after a failure were still purged
// from the store; only the listed records remain flagged.
type PartialUnfollowError struct {
	Failures []UnfollowFailure
}

func (e *PartialUnfollowError) Error() string {
	return fmt.Sprintf("unfollow failed for %d flagged friends", len(e.Failures))
}
