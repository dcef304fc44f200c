package stats

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// CreatedAtLayout is the textual timestamp format Twitter uses for the
// account creation time, e.g. "Mon Nov 29 21:18:15 +0000 2010". It is stored
// verbatim on records and only parsed here.
const CreatedAtLayout = time.RubyDate

// ErrInvalidTimestamp reports an account creation timestamp that does not
// match CreatedAtLayout.
var ErrInvalidTimestamp = errors.New("invalid created_at timestamp")

// AvgPostsPerDay computes the average number of posts per day over the whole
// account lifetime, from the creation date until today, rounded to 2 decimal
// places. The lifetime is a calendar-day difference. Accounts created today
// have no full day of history yet and are counted as one day old instead of
// dividing by zero.
func AvgPostsPerDay(createdAt string, postCount uint, today time.Time) (float64, error) {
	created, err := time.Parse(CreatedAtLayout, createdAt)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, createdAt)
	}

	lifetimeDays := calendarDaysBetween(created, today)
	if lifetimeDays < 1 {
		lifetimeDays = 1
	}

	return round2(float64(postCount) / float64(lifetimeDays)), nil
}

// FollowerFriendRatio computes the TFF ratio (followers to friends), rounded
// to 2 decimal places. A zero friend count yields 0.00 rather than an error.
func FollowerFriendRatio(followerCount, friendCount uint) float64 {
	if friendCount == 0 {
		return 0
	}
	return round2(float64(followerCount) / float64(friendCount))
}

func calendarDaysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
