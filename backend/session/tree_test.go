package session

import (
	"testing"
	"time"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func sampleTree() *Tree {
	return &Tree{
		CourseID: 1,
		Title:    "Stoicism 101",
		Modules: []*Module{
			{
				ID:    10,
				Title: "Foundations",
				Contents: []*Content{
					{ID: 100, Type: models.ContentLesson, Title: "Intro", Progress: LessonState{Status: models.StatusNotStarted}},
					{ID: 101, Type: models.ContentReading, Title: "Handbook"},
					{ID: 102, Type: models.ContentLesson, Title: "Dichotomy", Progress: LessonState{Status: models.StatusInProgress, WatchedSeconds: 40}},
				},
			},
			{
				ID:    11,
				Title: "Practice",
				Contents: []*Content{
					{ID: 103, Type: models.ContentLesson, Title: "Journaling", Progress: LessonState{Status: models.StatusNotStarted}},
					{ID: 104, Type: models.ContentQuiz, Title: "Checkpoint", QuizID: 7},
				},
			},
		},
	}
}

func TestApplyLessonProgressPatchTouchesOnlyTargetLeaf(t *testing.T) {
	tree := sampleTree()

	next := ApplyLessonProgressPatch(tree, 102, LessonPatch{
		Status:         strPtr(models.StatusCompleted),
		WatchedSeconds: intPtr(600),
	})

	require.NotSame(t, tree, next)

	// The patched leaf changed.
	patched := next.FindLesson(102)
	require.NotNil(t, patched)
	assert.Equal(t, models.StatusCompleted, patched.Progress.Status)
	assert.Equal(t, 600, patched.Progress.WatchedSeconds)

	// The original tree is untouched.
	assert.Equal(t, models.StatusInProgress, tree.FindLesson(102).Progress.Status)

	// Siblings and the unrelated module are the same nodes, so consumers can
	// use pointer equality to skip re-rendering them.
	assert.Same(t, tree.Modules[0].Contents[0], next.Modules[0].Contents[0])
	assert.Same(t, tree.Modules[0].Contents[1], next.Modules[0].Contents[1])
	assert.Same(t, tree.Modules[1], next.Modules[1])
	assert.NotSame(t, tree.Modules[0], next.Modules[0])
}

func TestApplyLessonProgressPatchUnknownLessonIsNoOp(t *testing.T) {
	tree := sampleTree()

	next := ApplyLessonProgressPatch(tree, 999, LessonPatch{Status: strPtr(models.StatusCompleted)})

	assert.Same(t, tree, next)
	assert.Equal(t, tree, next)
}

func TestApplyLessonProgressPatchIgnoresNonLessonWithSameID(t *testing.T) {
	tree := sampleTree()

	// 104 exists but is a quiz pointer, not a lesson.
	next := ApplyLessonProgressPatch(tree, 104, LessonPatch{Status: strPtr(models.StatusCompleted)})
	assert.Same(t, tree, next)
}

func TestApplyLessonProgressPatchShallowMerge(t *testing.T) {
	tree := sampleTree()

	// Only watched seconds in the patch; status must survive.
	next := ApplyLessonProgressPatch(tree, 102, LessonPatch{WatchedSeconds: intPtr(90)})

	patched := next.FindLesson(102)
	require.NotNil(t, patched)
	assert.Equal(t, models.StatusInProgress, patched.Progress.Status)
	assert.Equal(t, 90, patched.Progress.WatchedSeconds)
}

func TestBuildTreeOrdersAndProjectsProgress(t *testing.T) {
	completedAt := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	course := &models.Course{
		Model: gorm.Model{ID: 1},
		Title: "Stoicism 101",
		Modules: []models.CourseModule{
			{
				Model:         gorm.Model{ID: 11},
				SequenceOrder: 2,
				Title:         "Practice",
				Contents: []models.ContentItem{
					{Model: gorm.Model{ID: 103}, Type: models.ContentLesson, SequenceOrder: 1},
				},
			},
			{
				Model:         gorm.Model{ID: 10},
				SequenceOrder: 1,
				Title:         "Foundations",
				Contents: []models.ContentItem{
					{Model: gorm.Model{ID: 102}, Type: models.ContentLesson, SequenceOrder: 2},
					{Model: gorm.Model{ID: 100}, Type: models.ContentLesson, SequenceOrder: 1},
				},
			},
		},
	}
	progresses := []models.LessonProgress{
		{LessonID: 100, Status: models.StatusCompleted, WatchedSeconds: 600, CompletedAt: &completedAt},
	}

	tree := BuildTree(course, progresses)

	require.Len(t, tree.Modules, 2)
	assert.Equal(t, uint(10), tree.Modules[0].ID)
	assert.Equal(t, uint(11), tree.Modules[1].ID)
	assert.Equal(t, uint(100), tree.Modules[0].Contents[0].ID)
	assert.Equal(t, uint(102), tree.Modules[0].Contents[1].ID)

	intro := tree.FindLesson(100)
	require.NotNil(t, intro)
	assert.Equal(t, models.StatusCompleted, intro.Progress.Status)
	assert.Equal(t, 600, intro.Progress.WatchedSeconds)
	require.NotNil(t, intro.Progress.CompletedAt)
	assert.True(t, intro.Progress.CompletedAt.Equal(completedAt))

	// Lessons without a progress row start as not_started.
	assert.Equal(t, models.StatusNotStarted, tree.FindLesson(102).Progress.Status)
}

func TestSessionApplyReportsChange(t *testing.T) {
	sess := NewSession(sampleTree())
	before := sess.Tree()

	changed := sess.ApplyLessonProgress(100, LessonPatch{Status: strPtr(models.StatusInProgress)})
	assert.True(t, changed)
	assert.NotSame(t, before, sess.Tree())

	unchanged := sess.ApplyLessonProgress(999, LessonPatch{Status: strPtr(models.StatusCompleted)})
	assert.False(t, unchanged)
}

func TestSessionReplaceOnNavigation(t *testing.T) {
	sess := NewSession(sampleTree())

	fresh := &Tree{CourseID: 2, Title: "Logic"}
	sess.Replace(fresh)
	assert.Same(t, fresh, sess.Tree())
}

func TestFindModule(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, "Practice", tree.FindModule(11).Title)
	assert.Nil(t, tree.FindModule(999))
}
