package repositories

import "checktwfriends/models"

// FriendRepository is the persisted store of tracked friends.
type FriendRepository interface {
	All() ([]models.TrackedFriend, error)
	FilterByFlag(needUnfollow bool) ([]models.TrackedFriend, error)
	FindByHandle(handle string) (*models.TrackedFriend, error)
	Upsert(friend *models.TrackedFriend) error
	DeleteByID(id string) error
	DeleteByFlag(needUnfollow bool) error
	SetUnfollowState(handle string, state models.UnfollowState) (*models.TrackedFriend, error)
}
