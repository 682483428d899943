package controllers

import (
	"errors"
	"strconv"

	"project/backend/config"
	"project/backend/models"
	"project/backend/services"
	"project/backend/store"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Streak   *services.StreakService
	Progress *services.ProgressService
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	st := store.NewGormStore(db)
	return &ProgressController{
		DB:       db,
		Cfg:      cfg,
		Streak:   services.NewStreakService(st),
		Progress: services.NewProgressService(st),
	}
}

// serviceError maps engine errors onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, err.Error())
	default:
		// Store failures surface verbatim; retry policy belongs to the caller.
		return utils.Error(c, fiber.StatusInternalServerError, err)
	}
}

// RecordActivity is the watch-time heartbeat: it extends today's streak and
// adds the reported seconds to the cumulative watch time.
func (pc *ProgressController) RecordActivity(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		WatchedSeconds int `json:"watched_seconds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	summary, err := pc.Streak.RecordActivity(userID, input.WatchedSeconds)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"streak":           summary.Streak,
		"total_watch_time": summary.TotalWatchTime,
	})
}

func (pc *ProgressController) UpdateLessonProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var delta services.ProgressDelta
	if err := c.BodyParser(&delta); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	progress, err := pc.Progress.UpdateLessonProgress(userID, uint(lessonID), delta)
	if err != nil {
		return serviceError(c, err)
	}

	// Any lesson activity counts toward the day's streak. The progress write
	// has already committed, so a streak failure is reported but not fatal.
	if _, err := pc.Streak.UpdateStreakOnly(userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated",
		"progress": progress,
	})
}

// UpdateCourseLessonProgress is the course-scoped variant: the lesson must
// belong to the course named in the path.
func (pc *ProgressController) UpdateCourseLessonProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var delta services.ProgressDelta
	if err := c.BodyParser(&delta); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	progress, err := pc.Progress.UpdateLessonProgressInCourse(userID, uint(courseID), uint(lessonID), delta)
	if err != nil {
		return serviceError(c, err)
	}

	if _, err := pc.Streak.UpdateStreakOnly(userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated",
		"progress": progress,
	})
}

func (pc *ProgressController) MarkLessonComplete(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	progress, err := pc.Progress.MarkLessonComplete(userID, uint(lessonID))
	if err != nil {
		return serviceError(c, err)
	}

	if _, err := pc.Streak.UpdateStreakOnly(userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Lesson completed",
		"progress": progress,
	})
}

func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	progress, err := pc.Progress.GetCourseProgress(userID, uint(courseID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(progress)
}

// GetProgressOverview summarizes the user's engagement: streak, watch time,
// completed lessons, and quiz attempts.
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	summary, err := pc.Streak.Summary(userID)
	if err != nil {
		return serviceError(c, err)
	}

	var lessonsCompleted int64
	pc.DB.Model(&models.LessonProgress{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Count(&lessonsCompleted)

	var quizAttempts int64
	pc.DB.Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID).
		Count(&quizAttempts)

	return c.JSON(fiber.Map{
		"streak":            summary.Streak,
		"total_watch_time":  summary.TotalWatchTime,
		"lessons_completed": lessonsCompleted,
		"quiz_attempts":     quizAttempts,
	})
}
