package models

// TrackedFriend is a friend of the configured account that does not follow
// back. One row per remote account, keyed by the Twitter id string.
type TrackedFriend struct {
	ID               string  `gorm:"primaryKey;column:id_str;size:25"`
	Handle           string  `gorm:"uniqueIndex;column:screen_name;size:20"`
	Name             string  `gorm:"column:name;size:50"`
	Bio              string  `gorm:"column:description;type:text"`
	PostCount        uint    `gorm:"column:statuses_count"`
	FollowerCount    uint    `gorm:"column:followers_count"`
	FriendCount      uint    `gorm:"column:friends_count"`
	AccountCreatedAt string  `gorm:"column:created_at;size:50"`
	Location         string  `gorm:"column:location;size:100"`
	AvgPostsPerDay   float64 `gorm:"column:avg_tweetsperday"`
	TFFRatio         float64 `gorm:"column:tff_ratio"`
	NeedUnfollow     bool    `gorm:"column:need_unfollow"`
}

// TableName overrides the table name used by GORM
func (TrackedFriend) TableName() string {
	return "not_follower_tw_friend"
}

// State reads the persisted flag as an UnfollowState.
func (f *TrackedFriend) State() UnfollowState {
	if f.NeedUnfollow {
		return StatePendingRemoval
	}
	return StateExempt
}

// SetState writes an UnfollowState back to the persisted flag.
func (f *TrackedFriend) SetState(s UnfollowState) {
	f.NeedUnfollow = s == StatePendingRemoval
}
