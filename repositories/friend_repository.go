package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"checktwfriends/models"
)

// ErrNotFound reports a lookup for a tracked friend that is not in the store.
var ErrNotFound = errors.New("tracked friend not found")

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository wraps a gorm connection as a FriendRepository.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// All returns every tracked friend in the store.
func (r *friendRepository) All() ([]models.TrackedFriend, error) {
	var friends []models.TrackedFriend
	err := r.db.Order("screen_name").Find(&friends).Error
	return friends, err
}

// FilterByFlag returns the tracked friends with the given need_unfollow value.
func (r *friendRepository) FilterByFlag(needUnfollow bool) ([]models.TrackedFriend, error) {
	var friends []models.TrackedFriend
	err := r.db.Where("need_unfollow = ?", needUnfollow).Order("screen_name").Find(&friends).Error
	return friends, err
}

func (r *friendRepository) FindByHandle(handle string) (*models.TrackedFriend, error) {
	var friend models.TrackedFriend
	err := r.db.Where("screen_name = ?", handle).First(&friend).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &friend, nil
}

// Upsert inserts the record, or overwrites all fields when the id already
// exists.
func (r *friendRepository) Upsert(friend *models.TrackedFriend) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id_str"}},
		UpdateAll: true,
	}).Create(friend).Error
}

func (r *friendRepository) DeleteByID(id string) error {
	return r.db.Where("id_str = ?", id).Delete(&models.TrackedFriend{}).Error
}

func (r *friendRepository) DeleteByFlag(needUnfollow bool) error {
	return r.db.Where("need_unfollow = ?", needUnfollow).Delete(&models.TrackedFriend{}).Error
}

// SetUnfollowState updates the removal policy of one record, looked up by
// handle. Only the flag is operator-writable; every other field belongs to
// reconciliation.
func (r *friendRepository) SetUnfollowState(handle string, state models.UnfollowState) (*models.TrackedFriend, error) {
	friend, err := r.FindByHandle(handle)
	if err != nil {
		return nil, err
	}

	friend.SetState(state)
	if err := r.db.Model(friend).Update("need_unfollow", friend.NeedUnfollow).Error; err != nil {
		return nil, err
	}
	return friend, nil
}
