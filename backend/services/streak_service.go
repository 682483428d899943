package services

import (
	"fmt"
	"time"

	"project/backend/models"
	"project/backend/store"
)

// ActivitySummary is what RecordActivity reports back to the caller.
type ActivitySummary struct {
	Streak         int `json:"streak"`
	TotalWatchTime int `json:"total_watch_time"`
}

// StreakService derives the daily engagement streak and accumulates watch
// time. Each call does exactly one store read and one store write for the
// user's activity row.
type StreakService struct {
	Store store.ProgressStore

	// now is swapped out in tests to pin the calendar day.
	now func() time.Time
}

func NewStreakService(s store.ProgressStore) *StreakService {
	return &StreakService{Store: s, now: time.Now}
}

// utcDay truncates t to its UTC calendar day. All streak comparisons run on
// this one calendar so the streak cannot drift with client timezones.
func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nextStreak applies the calendar gap rule:
// no prior activity -> 1, same day -> unchanged, next day -> +1, gap -> 1.
func nextStreak(current int, last *time.Time, today time.Time) int {
	if last == nil {
		return 1
	}
	gapDays := int(today.Sub(utcDay(*last)).Hours() / 24)
	switch {
	case gapDays == 0:
		if current == 0 {
			return 1
		}
		return current
	case gapDays == 1:
		return current + 1
	default:
		return 1
	}
}

// RecordActivity registers activity for today and adds watchedSeconds to the
// user's cumulative watch time. Replaying the same day's event does not
// over-increment the streak. A user with no backing record is a silent no-op
// and returns a zero summary.
//
// The read and write are not held under a cross-step lock: two concurrent
// calls for the same user can interleave and lose one watch-time increment.
// That matches the accepted consistency policy; callers may retry safely.
func (ss *StreakService) RecordActivity(userID uint, watchedSeconds int) (ActivitySummary, error) {
	if watchedSeconds < 0 {
		return ActivitySummary{}, fmt.Errorf("%w: watched seconds must be >= 0", ErrInvalidInput)
	}

	exists, err := ss.Store.UserExists(userID)
	if err != nil {
		return ActivitySummary{}, err
	}
	if !exists {
		// Accepted degraded mode: nothing to record, not a fault.
		return ActivitySummary{}, nil
	}

	state, err := ss.Store.GetActivityState(userID)
	if err != nil {
		return ActivitySummary{}, err
	}
	if state == nil {
		state = &models.ActivityState{UserID: userID}
	}

	today := utcDay(ss.now())
	state.CurrentStreak = nextStreak(state.CurrentStreak, state.LastActivityDate, today)
	state.LastActivityDate = &today
	state.TotalWatchTimeSeconds += watchedSeconds

	if err := ss.Store.PutActivityState(userID, state); err != nil {
		return ActivitySummary{}, err
	}

	return ActivitySummary{
		Streak:         state.CurrentStreak,
		TotalWatchTime: state.TotalWatchTimeSeconds,
	}, nil
}

// UpdateStreakOnly extends the streak for activity with no watch duration,
// e.g. finishing a quiz.
func (ss *StreakService) UpdateStreakOnly(userID uint) (ActivitySummary, error) {
	return ss.RecordActivity(userID, 0)
}

// Summary returns the user's current streak and watch time without touching
// the streak. A user with no activity yet gets a zero summary.
func (ss *StreakService) Summary(userID uint) (ActivitySummary, error) {
	state, err := ss.Store.GetActivityState(userID)
	if err != nil {
		return ActivitySummary{}, err
	}
	if state == nil {
		return ActivitySummary{}, nil
	}
	return ActivitySummary{
		Streak:         state.CurrentStreak,
		TotalWatchTime: state.TotalWatchTimeSeconds,
	}, nil
}
