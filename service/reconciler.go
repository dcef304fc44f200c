package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"checktwfriends/models"
	"checktwfriends/monitoring"
	"checktwfriends/repositories"
	"checktwfriends/stats"
	"checktwfriends/twitter"
)

const (
	defaultPageSize  = 100
	defaultPageLimit = 400
)

// Reconciler refreshes the tracked-friend records to match the current
// remote friend/follower state: every friend that does not follow back gets
// a record, records for accounts that reciprocated or were unfriended are
// removed, and operator-set exemptions survive the refresh.
type Reconciler struct {
	client    twitter.GraphClient
	repo      repositories.FriendRepository
	pageSize  int
	pageLimit int
	now       func() time.Time

	mu sync.Mutex // serializes runs within this process
}

// NewReconciler builds a Reconciler. pageSize is the friends-per-page count
// requested from the remote API; pageLimit bounds the walk so a misbehaving
// remote cursor cannot keep the run alive forever.
func NewReconciler(client twitter.GraphClient, repo repositories.FriendRepository, pageSize, pageLimit int) *Reconciler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	return &Reconciler{
		client:    client,
		repo:      repo,
		pageSize:  pageSize,
		pageLimit: pageLimit,
		now:       time.Now,
	}
}

// Reconcile walks the remote friends list, keeps every friend that is not
// also a follower, computes the derived metrics, and synchronizes the store
// to that set. Returns the synchronized records. Any remote or store failure
// aborts the run.
func (r *Reconciler) Reconcile() ([]models.TrackedFriend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	followerIDs, err := r.client.FollowerIDs()
	if err != nil {
		monitoring.ReconcileFailures.WithLabelValues("follower_ids").Inc()
		return nil, fmt.Errorf("fetching follower ids: %w", err)
	}

	exemptIDs, err := r.exemptIDs()
	if err != nil {
		monitoring.ReconcileFailures.WithLabelValues("store_read").Inc()
		return nil, fmt.Errorf("reading exempt records: %w", err)
	}

	candidates, candidateIDs, err := r.collectCandidates(followerIDs, exemptIDs)
	if err != nil {
		return nil, err
	}

	if err := r.synchronize(candidates, candidateIDs); err != nil {
		monitoring.ReconcileFailures.WithLabelValues("store_write").Inc()
		return nil, err
	}

	logrus.WithField("tracked", len(candidates)).Info("Reconciliation finished")
	monitoring.ReconcileRuns.Inc()
	monitoring.TrackedFriends.Set(float64(len(candidates)))

	return candidates, nil
}

// collectCandidates pages through the remote friends list and builds a
// record per friend that is not in the follower set. A duplicate id across
// pages overwrites the earlier occurrence.
func (r *Reconciler) collectCandidates(followerIDs, exemptIDs map[string]struct{}) ([]models.TrackedFriend, map[string]int, error) {
	var candidates []models.TrackedFriend
	candidateIDs := make(map[string]int)

	cursor := twitter.CursorStart
	for pages := 0; !cursor.Done(); pages++ {
		if pages >= r.pageLimit {
			monitoring.ReconcileFailures.WithLabelValues("page_limit").Inc()
			return nil, nil, fmt.Errorf("%w after %d pages", ErrPageLimit, pages)
		}

		page, err := r.client.FriendsPage(cursor, r.pageSize)
		if err != nil {
			monitoring.ReconcileFailures.WithLabelValues("friends_page").Inc()
			return nil, nil, fmt.Errorf("fetching friends page: %w", err)
		}

		for _, friend := range page.Users {
			if _, follows := followerIDs[friend.ID]; follows {
				continue
			}

			record, err := r.buildRecord(friend, exemptIDs)
			if err != nil {
				monitoring.ReconcileFailures.WithLabelValues("metrics").Inc()
				return nil, nil, err
			}

			if i, seen := candidateIDs[record.ID]; seen {
				candidates[i] = record
			} else {
				candidateIDs[record.ID] = len(candidates)
				candidates = append(candidates, record)
			}
		}

		cursor = page.NextCursor
	}

	return candidates, candidateIDs, nil
}

func (r *Reconciler) buildRecord(p twitter.Profile, exemptIDs map[string]struct{}) (models.TrackedFriend, error) {
	avgPostsPerDay, err := stats.AvgPostsPerDay(p.CreatedAt, p.PostCount, r.now())
	if err != nil {
		return models.TrackedFriend{}, fmt.Errorf("friend %s: %w", p.Handle, err)
	}

	record := models.TrackedFriend{
		ID:               p.ID,
		Handle:           p.Handle,
		Name:             p.Name,
		Bio:              p.Bio,
		PostCount:        p.PostCount,
		FollowerCount:    p.FollowerCount,
		FriendCount:      p.FriendCount,
		AccountCreatedAt: p.CreatedAt,
		Location:         p.Location,
		AvgPostsPerDay:   avgPostsPerDay,
		TFFRatio:         stats.FollowerFriendRatio(p.FollowerCount, p.FriendCount),
	}

	state := models.StatePendingRemoval
	if _, exempt := exemptIDs[p.ID]; exempt {
		state = models.StateExempt
	}
	record.SetState(state)

	return record, nil
}

// exemptIDs returns the ids of the records an operator marked to keep. The
// exemptions are read before the walk so the refreshed records carry them
// forward.
func (r *Reconciler) exemptIDs() (map[string]struct{}, error) {
	exempt, err := r.repo.FilterByFlag(false)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(exempt))
	for _, friend := range exempt {
		ids[friend.ID] = struct{}{}
	}
	return ids, nil
}

// synchronize makes the store match the candidate set: records whose account
// is no longer a non-follower friend are deleted, everything else is
// upserted with the freshly computed fields.
func (r *Reconciler) synchronize(candidates []models.TrackedFriend, candidateIDs map[string]int) error {
	existing, err := r.repo.All()
	if err != nil {
		return fmt.Errorf("reading tracked friends: %w", err)
	}

	for _, record := range existing {
		if _, still := candidateIDs[record.ID]; !still {
			if err := r.repo.DeleteByID(record.ID); err != nil {
				return fmt.Errorf("deleting stale record %s: %w", record.ID, err)
			}
		}
	}

	for i := range candidates {
		if err := r.repo.Upsert(&candidates[i]); err != nil {
			return fmt.Errorf("upserting record %s: %w", candidates[i].ID, err)
		}
	}

	return nil
}
