package store

import (
	"fmt"
	"testing"
	"time"

	"project/backend/models"
	"project/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateModels(db))
	return NewGormStore(db), db
}

func seedCourse(t *testing.T, db *gorm.DB) (courseID uint, lessonIDs []uint, readingID uint) {
	t.Helper()

	course := &models.Course{Title: "Ethics"}
	require.NoError(t, db.Create(course).Error)

	module := &models.CourseModule{CourseID: course.ID, Title: "Week 1", SequenceOrder: 1}
	require.NoError(t, db.Create(module).Error)

	for i := 0; i < 2; i++ {
		item := &models.ContentItem{ModuleID: module.ID, Type: models.ContentLesson, SequenceOrder: i + 1}
		require.NoError(t, db.Create(item).Error)
		lessonIDs = append(lessonIDs, item.ID)
	}

	reading := &models.ContentItem{ModuleID: module.ID, Type: models.ContentReading, SequenceOrder: 3}
	require.NoError(t, db.Create(reading).Error)

	return course.ID, lessonIDs, reading.ID
}

func TestActivityStateAbsentIsNil(t *testing.T) {
	st, _ := newTestStore(t)

	state, err := st.GetActivityState(42)
	assert.NoError(t, err)
	assert.Nil(t, state)
}

func TestActivityStateRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)

	day := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	state := &models.ActivityState{
		CurrentStreak:         3,
		LastActivityDate:      &day,
		TotalWatchTimeSeconds: 900,
	}
	require.NoError(t, st.PutActivityState(42, state))

	// A second put of the same row must update, not duplicate.
	state.CurrentStreak = 4
	require.NoError(t, st.PutActivityState(42, state))

	got, err := st.GetActivityState(42)
	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.CurrentStreak)
	assert.Equal(t, 900, got.TotalWatchTimeSeconds)
	require.NotNil(t, got.LastActivityDate)
	assert.True(t, got.LastActivityDate.Equal(day))
}

func TestLessonProgressAbsentIsNil(t *testing.T) {
	st, _ := newTestStore(t)

	progress, err := st.GetLessonProgress(1, 100)
	assert.NoError(t, err)
	assert.Nil(t, progress)
}

func TestListLessonProgressScopedToCourseLessons(t *testing.T) {
	st, db := newTestStore(t)
	courseID, lessonIDs, _ := seedCourse(t, db)
	otherCourseID, otherLessons, _ := seedCourse(t, db)

	require.NoError(t, st.PutLessonProgress(1, lessonIDs[0], &models.LessonProgress{Status: models.StatusCompleted}))
	require.NoError(t, st.PutLessonProgress(1, otherLessons[0], &models.LessonProgress{Status: models.StatusInProgress}))
	// Another user's row in the same course must not leak in.
	require.NoError(t, st.PutLessonProgress(2, lessonIDs[1], &models.LessonProgress{Status: models.StatusCompleted}))

	progresses, err := st.ListLessonProgress(1, courseID)
	assert.NoError(t, err)
	require.Len(t, progresses, 1)
	assert.Equal(t, lessonIDs[0], progresses[0].LessonID)

	progresses, err = st.ListLessonProgress(1, otherCourseID)
	assert.NoError(t, err)
	require.Len(t, progresses, 1)
	assert.Equal(t, otherLessons[0], progresses[0].LessonID)
}

func TestCountCourseLessonsExcludesNonLessons(t *testing.T) {
	st, db := newTestStore(t)
	courseID, _, _ := seedCourse(t, db)

	count, err := st.CountCourseLessons(courseID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLessonBelongsToCourse(t *testing.T) {
	st, db := newTestStore(t)
	courseID, lessonIDs, readingID := seedCourse(t, db)
	otherCourseID, _, _ := seedCourse(t, db)

	ok, err := st.LessonBelongsToCourse(lessonIDs[0], courseID)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.LessonBelongsToCourse(lessonIDs[0], otherCourseID)
	assert.NoError(t, err)
	assert.False(t, ok)

	// Readings are not lessons.
	ok, err = st.LessonBelongsToCourse(readingID, courseID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestQuizAttemptsAppendOnly(t *testing.T) {
	st, db := newTestStore(t)

	quiz := &models.Quiz{Title: "Checkpoint"}
	require.NoError(t, db.Create(quiz).Error)

	first := &models.QuizAttempt{Score: 60, SubmittedAt: time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)}
	second := &models.QuizAttempt{Score: 80, SubmittedAt: time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, st.AppendQuizAttempt(1, quiz.ID, first))
	require.NoError(t, st.AppendQuizAttempt(1, quiz.ID, second))

	attempts, err := st.ListQuizAttempts(1, quiz.ID)
	assert.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 60.0, attempts[0].Score)
	assert.Equal(t, 80.0, attempts[1].Score)
}

func TestExistenceChecks(t *testing.T) {
	st, db := newTestStore(t)

	user := &models.User{Username: "marcus", Email: "marcus@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	_, lessonIDs, _ := seedCourse(t, db)
	quiz := &models.Quiz{Title: "Checkpoint"}
	require.NoError(t, db.Create(quiz).Error)

	ok, err := st.UserExists(user.ID)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.UserExists(9999)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = st.LessonExists(lessonIDs[0])
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.LessonExists(9999)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = st.QuizExists(quiz.ID)
	assert.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.QuizExists(9999)
	assert.NoError(t, err)
	assert.False(t, ok)
}
