package services

import (
	"fmt"
	"testing"
	"time"

	"project/backend/models"
	"project/backend/store"
	"project/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateModels(db))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Username:     fmt.Sprintf("user-%s", t.Name()),
		Email:        fmt.Sprintf("%s@example.com", t.Name()),
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 15, 30, 0, 0, time.UTC)
	}
}

func TestRecordActivityFirstEver(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))
	ss.now = fixedClock(2024, time.January, 10)

	summary, err := ss.RecordActivity(user.ID, 300)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 300, summary.TotalWatchTime)
}

func TestRecordActivitySameDayIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))
	ss.now = fixedClock(2024, time.January, 10)

	total := 0
	for _, seconds := range []int{120, 60, 0} {
		summary, err := ss.RecordActivity(user.ID, seconds)
		assert.NoError(t, err)
		assert.Equal(t, 1, summary.Streak)

		total += seconds
		assert.Equal(t, total, summary.TotalWatchTime)
	}
}

func TestRecordActivityConsecutiveDay(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))

	lastActive := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.ActivityState{
		UserID:                user.ID,
		CurrentStreak:         3,
		LastActivityDate:      &lastActive,
		TotalWatchTimeSeconds: 1000,
	}).Error)

	ss.now = fixedClock(2024, time.January, 11)
	summary, err := ss.RecordActivity(user.ID, 120)
	assert.NoError(t, err)
	assert.Equal(t, 4, summary.Streak)
	assert.Equal(t, 1120, summary.TotalWatchTime)
}

func TestRecordActivityGapResets(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))

	lastActive := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.ActivityState{
		UserID:           user.ID,
		CurrentStreak:    7,
		LastActivityDate: &lastActive,
	}).Error)

	ss.now = fixedClock(2024, time.January, 15)
	summary, err := ss.RecordActivity(user.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Streak)
}

func TestRecordActivityCrossesDayBoundaryNotWallClock(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))

	// Late on Jan 10th; next call early on Jan 11th is under 24h of wall
	// clock away but is still the next calendar day.
	ss.now = func() time.Time {
		return time.Date(2024, time.January, 10, 23, 50, 0, 0, time.UTC)
	}
	summary, err := ss.RecordActivity(user.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Streak)

	ss.now = func() time.Time {
		return time.Date(2024, time.January, 11, 0, 10, 0, 0, time.UTC)
	}
	summary, err = ss.RecordActivity(user.ID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Streak)
}

func TestRecordActivityNegativeSecondsRejected(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))

	_, err := ss.RecordActivity(user.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Nothing was written.
	state, storeErr := ss.Store.GetActivityState(user.ID)
	assert.NoError(t, storeErr)
	assert.Nil(t, state)
}

func TestRecordActivityUnknownUserIsSilentNoOp(t *testing.T) {
	db := newTestDB(t)
	ss := NewStreakService(store.NewGormStore(db))

	summary, err := ss.RecordActivity(9999, 120)
	assert.NoError(t, err)
	assert.Equal(t, ActivitySummary{}, summary)
}

func TestUpdateStreakOnlyLeavesWatchTime(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))
	ss.now = fixedClock(2024, time.March, 1)

	_, err := ss.RecordActivity(user.ID, 500)
	require.NoError(t, err)

	summary, err := ss.UpdateStreakOnly(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Streak)
	assert.Equal(t, 500, summary.TotalWatchTime)
}

func TestWatchTimeNonDecreasing(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))
	ss.now = fixedClock(2024, time.March, 1)

	previous := 0
	for _, seconds := range []int{10, 0, 250, 0, 5} {
		summary, err := ss.RecordActivity(user.ID, seconds)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, summary.TotalWatchTime, previous)
		previous = summary.TotalWatchTime
	}
}

func TestSummaryWithoutActivity(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	ss := NewStreakService(store.NewGormStore(db))

	summary, err := ss.Summary(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, ActivitySummary{}, summary)
}
