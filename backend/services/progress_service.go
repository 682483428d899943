package services

import (
	"fmt"
	"math"
	"time"

	"project/backend/models"
	"project/backend/store"
)

// ProgressDelta carries an incremental lesson progress update. Nil fields are
// left untouched by the merge.
type ProgressDelta struct {
	WatchedSeconds *int    `json:"watched_seconds"`
	Status         *string `json:"status"`
}

// ProgressService owns per-lesson and per-course completion state and the quiz
// attempt log. Lesson merges are monotonic, so duplicate or reordered
// deliveries of the same update are harmless.
type ProgressService struct {
	Store store.ProgressStore

	now func() time.Time
}

func NewProgressService(s store.ProgressStore) *ProgressService {
	return &ProgressService{Store: s, now: time.Now}
}

// UpdateLessonProgress fetches or lazily creates the lesson progress row and
// applies a monotonic merge: watched seconds never regress, status only moves
// forward along not_started -> in_progress -> completed, and the completion
// timestamp is stamped exactly once.
func (ps *ProgressService) UpdateLessonProgress(userID, lessonID uint, delta ProgressDelta) (*models.LessonProgress, error) {
	if delta.WatchedSeconds != nil && *delta.WatchedSeconds < 0 {
		return nil, fmt.Errorf("%w: watched seconds must be >= 0", ErrInvalidInput)
	}
	if delta.Status != nil && !models.ValidStatus(*delta.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *delta.Status)
	}

	exists, err := ps.Store.LessonExists(lessonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: lesson %d", ErrNotFound, lessonID)
	}

	progress, err := ps.Store.GetLessonProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &models.LessonProgress{
			UserID:   userID,
			LessonID: lessonID,
			Status:   models.StatusNotStarted,
		}
	}

	if delta.WatchedSeconds != nil && *delta.WatchedSeconds > progress.WatchedSeconds {
		progress.WatchedSeconds = *delta.WatchedSeconds
	}
	if delta.Status != nil && models.StatusRank(*delta.Status) > models.StatusRank(progress.Status) {
		progress.Status = *delta.Status
	}
	if progress.Status == models.StatusCompleted && progress.CompletedAt == nil {
		completedAt := ps.now()
		progress.CompletedAt = &completedAt
	}

	if err := ps.Store.PutLessonProgress(userID, lessonID, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// UpdateLessonProgressInCourse rejects a lesson identifier that does not
// belong to the stated course before touching any progress state, then applies
// the normal merge.
func (ps *ProgressService) UpdateLessonProgressInCourse(userID, courseID, lessonID uint, delta ProgressDelta) (*models.LessonProgress, error) {
	ok, err := ps.Store.LessonBelongsToCourse(lessonID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: lesson %d does not belong to course %d", ErrInvalidInput, lessonID, courseID)
	}
	return ps.UpdateLessonProgress(userID, lessonID, delta)
}

// MarkLessonComplete is the convenience form of UpdateLessonProgress with a
// completed status and no watch-time change.
func (ps *ProgressService) MarkLessonComplete(userID, lessonID uint) (*models.LessonProgress, error) {
	completed := models.StatusCompleted
	return ps.UpdateLessonProgress(userID, lessonID, ProgressDelta{Status: &completed})
}

// GetCourseProgress recomputes course completion from the lesson progress rows.
// A course with no lessons (or an unknown course) reports zero percent rather
// than faulting.
func (ps *ProgressService) GetCourseProgress(userID, courseID uint) (models.CourseProgress, error) {
	total, err := ps.Store.CountCourseLessons(courseID)
	if err != nil {
		return models.CourseProgress{}, err
	}

	progresses, err := ps.Store.ListLessonProgress(userID, courseID)
	if err != nil {
		return models.CourseProgress{}, err
	}

	completed := 0
	for _, p := range progresses {
		if p.Status == models.StatusCompleted {
			completed++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(completed) / float64(total)))
	}

	return models.CourseProgress{
		CourseID:   courseID,
		Completed:  completed,
		Total:      int(total),
		Percentage: percentage,
	}, nil
}

// SaveQuizAttempt appends an immutable attempt record. Prior attempts are
// never touched.
func (ps *ProgressService) SaveQuizAttempt(userID, quizID uint, score float64, answers string) (*models.QuizAttempt, error) {
	if score < 0 {
		return nil, fmt.Errorf("%w: score must be >= 0", ErrInvalidInput)
	}

	exists, err := ps.Store.QuizExists(quizID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: quiz %d", ErrNotFound, quizID)
	}

	attempt := &models.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		Answers:     answers,
		SubmittedAt: ps.now(),
	}
	if err := ps.Store.AppendQuizAttempt(userID, quizID, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GetBestQuizAttempt picks the highest-scoring attempt, ties broken by the
// earliest submission. No attempts yet returns (nil, nil).
func (ps *ProgressService) GetBestQuizAttempt(userID, quizID uint) (*models.QuizAttempt, error) {
	attempts, err := ps.Store.ListQuizAttempts(userID, quizID)
	if err != nil {
		return nil, err
	}

	var best *models.QuizAttempt
	for i := range attempts {
		a := &attempts[i]
		if best == nil || a.Score > best.Score ||
			(a.Score == best.Score && a.SubmittedAt.Before(best.SubmittedAt)) {
			best = a
		}
	}
	return best, nil
}

// ListQuizAttempts returns the full attempt history, oldest first.
func (ps *ProgressService) ListQuizAttempts(userID, quizID uint) ([]models.QuizAttempt, error) {
	return ps.Store.ListQuizAttempts(userID, quizID)
}
