package service

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"checktwfriends/models"
	"checktwfriends/monitoring"
	"checktwfriends/repositories"
	"checktwfriends/twitter"
)

// Unfollower destroys the remote friendships of every record flagged for
// removal and purges the corresponding records from the store.
type Unfollower struct {
	client twitter.GraphClient
	repo   repositories.FriendRepository

	mu sync.Mutex // serializes runs within this process
}

func NewUnfollower(client twitter.GraphClient, repo repositories.FriendRepository) *Unfollower {
	return &Unfollower{client: client, repo: repo}
}

// UnfollowFlagged unfollows every record with the pending-removal flag and
// deletes the record once the remote destroy succeeded. A destroy failure
// does not abort the batch: the remaining records are still processed and
// the failures come back aggregated as a PartialUnfollowError. Records whose
// destroy failed stay in the store, still flagged, so the next run retries
// them. Returns the exempt records remaining after the purge.
func (u *Unfollower) UnfollowFlagged() ([]models.TrackedFriend, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	flagged, err := u.repo.FilterByFlag(true)
	if err != nil {
		return nil, fmt.Errorf("reading flagged records: %w", err)
	}

	var failures []UnfollowFailure
	for _, friend := range flagged {
		if err := u.client.DestroyFriendship(friend.ID); err != nil {
			logrus.WithError(err).WithField("handle", friend.Handle).Warn("Destroying friendship failed")
			monitoring.UnfollowFailures.Inc()
			failures = append(failures, UnfollowFailure{ID: friend.ID, Handle: friend.Handle, Err: err})
			continue
		}

		if err := u.repo.DeleteByID(friend.ID); err != nil {
			return nil, fmt.Errorf("purging record %s: %w", friend.ID, err)
		}
		monitoring.UnfollowsDone.Inc()
	}

	remaining, err := u.repo.FilterByFlag(false)
	if err != nil {
		return nil, fmt.Errorf("reading remaining records: %w", err)
	}

	if len(failures) > 0 {
		return remaining, &PartialUnfollowError{Failures: failures}
	}

	logrus.WithField("unfollowed", len(flagged)).Info("Unfollow run finished")
	return remaining, nil
}
