package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"checktwfriends/models"
)

func newTestRepo(t *testing.T) FriendRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TrackedFriend{}))
	return NewFriendRepository(db)
}

func friend(id, handle string, needUnfollow bool) *models.TrackedFriend {
	return &models.TrackedFriend{
		ID:               id,
		Handle:           handle,
		Name:             handle,
		AccountCreatedAt: "Mon Nov 29 21:18:15 +0000 2010",
		NeedUnfollow:     needUnfollow,
	}
}

func TestUpsertInsertsAndOverwrites(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Upsert(friend("1", "alice", true)))

	updated := friend("1", "alice", true)
	updated.PostCount = 42
	updated.NeedUnfollow = false
	require.NoError(t, repo.Upsert(updated))

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, uint(42), all[0].PostCount)
	assert.False(t, all[0].NeedUnfollow)
}

func TestFilterByFlag(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(friend("1", "alice", true)))
	require.NoError(t, repo.Upsert(friend("2", "bob", false)))
	require.NoError(t, repo.Upsert(friend("3", "carol", true)))

	flagged, err := repo.FilterByFlag(true)
	require.NoError(t, err)
	require.Len(t, flagged, 2)

	exempt, err := repo.FilterByFlag(false)
	require.NoError(t, err)
	require.Len(t, exempt, 1)
	assert.Equal(t, "bob", exempt[0].Handle)
}

func TestFindByHandle(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(friend("1", "alice", true)))

	got, err := repo.FindByHandle("alice")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = repo.FindByHandle("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(friend("1", "alice", true)))
	require.NoError(t, repo.Upsert(friend("2", "bob", true)))

	require.NoError(t, repo.DeleteByID("1"))

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].ID)
}

func TestDeleteByFlag(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(friend("1", "alice", true)))
	require.NoError(t, repo.Upsert(friend("2", "bob", false)))

	require.NoError(t, repo.DeleteByFlag(true))

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "bob", all[0].Handle)
}

func TestSetUnfollowState(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Upsert(friend("1", "alice", true)))

	got, err := repo.SetUnfollowState("alice", models.StateExempt)
	require.NoError(t, err)
	assert.False(t, got.NeedUnfollow)

	stored, err := repo.FindByHandle("alice")
	require.NoError(t, err)
	assert.Equal(t, models.StateExempt, stored.State())

	_, err = repo.SetUnfollowState("nobody", models.StateExempt)
	require.ErrorIs(t, err, ErrNotFound)
}
