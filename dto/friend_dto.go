package dto

import "checktwfriends/models"

// FriendDTO is the wire shape of a tracked friend. Field names match the
// Twitter user object they were captured from.
type FriendDTO struct {
	ID               string  `json:"id_str"`
	Handle           string  `json:"screen_name"`
	Name             string  `json:"name"`
	Bio              string  `json:"description"`
	PostCount        uint    `json:"statuses_count"`
	FollowerCount    uint    `json:"followers_count"`
	FriendCount      uint    `json:"friends_count"`
	AccountCreatedAt string  `json:"created_at"`
	Location         string  `json:"location"`
	AvgPostsPerDay   float64 `json:"avg_tweetsperday"`
	TFFRatio         float64 `json:"tff_ratio"`
	NeedUnfollow     bool    `json:"need_unfollow"`
}

// FromModel maps a stored record to its wire shape.
func FromModel(f models.TrackedFriend) FriendDTO {
	return FriendDTO{
		ID:               f.ID,
		Handle:           f.Handle,
		Name:             f.Name,
		Bio:              f.Bio,
		PostCount:        f.PostCount,
		FollowerCount:    f.FollowerCount,
		FriendCount:      f.FriendCount,
		AccountCreatedAt: f.AccountCreatedAt,
		Location:         f.Location,
		AvgPostsPerDay:   f.AvgPostsPerDay,
		TFFRatio:         f.TFFRatio,
		NeedUnfollow:     f.NeedUnfollow,
	}
}

// FromModels maps a record list, preserving order. Always returns a non-nil
// slice so empty lists serialize as [] rather than null.
func FromModels(friends []models.TrackedFriend) []FriendDTO {
	out := make([]FriendDTO, len(friends))
	for i, f := range friends {
		out[i] = FromModel(f)
	}
	return out
}
