package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checktwfriends/database"
	"checktwfriends/models"
	"checktwfriends/repositories"
	"checktwfriends/twitter"
)

type fakeGraph struct {
	followers  map[string]struct{}
	pages      []twitter.FriendsPage
	destroyErr map[string]error
	destroyed  []string
}

func (f *fakeGraph) FollowerIDs() (map[string]struct{}, error) {
	return f.followers, nil
}

func (f *fakeGraph) FriendsPage(cursor twitter.Cursor, count int) (twitter.FriendsPage, error) {
	idx := 0
	if cursor != twitter.CursorStart {
		idx = int(cursor)
	}
	return f.pages[idx], nil
}

func (f *fakeGraph) DestroyFriendship(id string) error {
	if err, ok := f.destroyErr[id]; ok {
		return err
	}
	f.destroyed = append(f.destroyed, id)
	return nil
}

// pagesOf chains the groups into a cursored walk: each page points at the
// next, the last one carries the terminal cursor.
func pagesOf(groups ...[]twitter.Profile) []twitter.FriendsPage {
	pages := make([]twitter.FriendsPage, len(groups))
	for i, group := range groups {
		next := twitter.CursorEnd
		if i < len(groups)-1 {
			next = twitter.Cursor(i + 1)
		}
		pages[i] = twitter.FriendsPage{NextCursor: next, Users: group}
	}
	return pages
}

func followerSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func profile(id, handle string) twitter.Profile {
	return twitter.Profile{
		ID:            id,
		Handle:        handle,
		Name:          handle,
		CreatedAt:     "Mon Nov 29 21:18:15 +0000 2010",
		PostCount:     100,
		FollowerCount: 10,
		FriendCount:   20,
	}
}

func newTestRepo(t *testing.T) repositories.FriendRepository {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "friends.db"))
	require.NoError(t, err)
	return repositories.NewFriendRepository(db)
}

func storedFriend(id, handle string, needUnfollow bool) *models.TrackedFriend {
	return &models.TrackedFriend{
		ID:               id,
		Handle:           handle,
		Name:             handle,
		AccountCreatedAt: "Mon Nov 29 21:18:15 +0000 2010",
		NeedUnfollow:     needUnfollow,
	}
}

func idsOf(friends []models.TrackedFriend) []string {
	ids := make([]string, len(friends))
	for i, f := range friends {
		ids[i] = f.ID
	}
	return ids
}

func TestReconcileEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	graph := &fakeGraph{
		followers: followerSet("1", "2"),
		pages:     pagesOf([]twitter.Profile{profile("1", "alice"), profile("3", "carol"), profile("4", "dave")}),
	}

	got, err := NewReconciler(graph, repo, 100, 10).Reconcile()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"3", "4"}, idsOf(got))

	stored, err := repo.All()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, friend := range stored {
		assert.True(t, friend.NeedUnfollow, "new candidates default to pending removal")
	}
}

func TestReconcilePreservesExemptFlag(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(storedFriend("3", "carol", false)))

	graph := &fakeGraph{
		followers: followerSet("1", "2"),
		pages:     pagesOf([]twitter.Profile{profile("1", "alice"), profile("3", "carol"), profile("4", "dave")}),
	}

	_, err := NewReconciler(graph, repo, 100, 10).Reconcile()
	require.NoError(t, err)

	carol, err := repo.FindByHandle("carol")
	require.NoError(t, err)
	assert.Equal(t, models.StateExempt, carol.State())

	dave, err := repo.FindByHandle("dave")
	require.NoError(t, err)
	assert.Equal(t, models.StatePendingRemoval, dave.State())
}

func TestReconcileDeletesStaleRecords(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(storedFriend("5", "eve", true)))

	graph := &fakeGraph{
		followers: followerSet("1", "2"),
		pages:     pagesOf([]twitter.Profile{profile("3", "carol"), profile("4", "dave")}),
	}

	_, err := NewReconciler(graph, repo, 100, 10).Reconcile()
	require.NoError(t, err)

	stored, err := repo.All()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"3", "4"}, idsOf(stored))

	_, err = repo.FindByHandle("eve")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestReconcileIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(storedFriend("3", "carol", false)))

	graph := &fakeGraph{
		followers: followerSet("1"),
		pages:     pagesOf([]twitter.Profile{profile("3", "carol"), profile("4", "dave")}),
	}
	reconciler := NewReconciler(graph, repo, 100, 10)

	_, err := reconciler.Reconcile()
	require.NoError(t, err)
	first, err := repo.All()
	require.NoError(t, err)

	_, err = reconciler.Reconcile()
	require.NoError(t, err)
	second, err := repo.All()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcileMultiPageLastSeenWins(t *testing.T) {
	repo := newTestRepo(t)

	early := profile("3", "carol")
	late := profile("3", "carol")
	late.PostCount = 999

	graph := &fakeGraph{
		followers: followerSet("1"),
		pages: pagesOf(
			[]twitter.Profile{early, profile("4", "dave")},
			[]twitter.Profile{late, profile("6", "frank")},
		),
	}

	got, err := NewReconciler(graph, repo, 2, 10).Reconcile()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"3", "4", "6"}, idsOf(got))

	carol, err := repo.FindByHandle("carol")
	require.NoError(t, err)
	assert.Equal(t, uint(999), carol.PostCount)
}

func TestReconcilePageLimit(t *testing.T) {
	repo := newTestRepo(t)

	// A remote cursor that never reaches the terminal sentinel.
	graph := &fakeGraph{
		followers: followerSet(),
		pages: []twitter.FriendsPage{
			{NextCursor: 1, Users: []twitter.Profile{profile("3", "carol")}},
			{NextCursor: 1, Users: []twitter.Profile{profile("4", "dave")}},
		},
	}

	_, err := NewReconciler(graph, repo, 100, 3).Reconcile()
	require.ErrorIs(t, err, ErrPageLimit)
}

func TestReconcileInvalidTimestampAborts(t *testing.T) {
	repo := newTestRepo(t)

	broken := profile("3", "carol")
	broken.CreatedAt = "not a timestamp"

	graph := &fakeGraph{
		followers: followerSet(),
		pages:     pagesOf([]twitter.Profile{broken}),
	}

	_, err := NewReconciler(graph, repo, 100, 10).Reconcile()
	require.Error(t, err)

	stored, err := repo.All()
	require.NoError(t, err)
	assert.Empty(t, stored, "a failed run must not mutate the store")
}

func TestReconcileFixedClock(t *testing.T) {
	repo := newTestRepo(t)
	graph := &fakeGraph{
		followers: followerSet(),
		pages:     pagesOf([]twitter.Profile{profile("3", "carol")}),
	}

	reconciler := NewReconciler(graph, repo, 100, 10)
	reconciler.now = func() time.Time {
		return time.Date(2010, time.December, 9, 12, 0, 0, 0, time.UTC)
	}

	got, err := reconciler.Reconcile()
	require.NoError(t, err)
	require.Len(t, got, 1)

	// 100 posts over the 10 days since Nov 29 2010.
	assert.Equal(t, 10.0, got[0].AvgPostsPerDay)
	assert.Equal(t, 0.5, got[0].TFFRatio)
}
