package controllers

import (
	"errors"
	"strconv"

	"project/backend/config"
	"project/backend/models"
	"project/backend/session"
	"project/backend/store"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Store store.ProgressStore
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Store: store.NewGormStore(db)}
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	topic := c.Query("topic")

	query := cc.DB.Model(&models.Course{})
	if topic != "" {
		query = query.Where("topic LIKE ?", "%"+topic+"%")
	}

	var courses []models.Course
	query.Find(&courses)

	var result []fiber.Map
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.ShortDesc,
			"difficulty":  course.Difficulty,
			"topic":       course.Topic,
			"author":      course.AuthorID,
			"logo_url":    course.LogoURL,
		})
	}

	return c.JSON(result)
}

// GetCourseDetails loads the course with its modules and contents and returns
// the viewer's progress tree projection for it.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var course models.Course
	if err := cc.DB.Preload("Modules.Contents").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	progresses, err := cc.Store.ListLessonProgress(userID, uint(courseID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load progress",
		})
	}

	tree := session.BuildTree(&course, progresses)

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"description": course.Description,
			"short_desc":  course.ShortDesc,
			"difficulty":  course.Difficulty,
			"topic":       course.Topic,
			"logo_url":    course.LogoURL,
			"author":      course.AuthorID,
		},
		"tree": tree,
	})
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	course.AuthorID = userID

	if err := cc.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

func (cc *CoursesController) AddModule(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Course not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var moduleCount int64
	cc.DB.Model(&models.CourseModule{}).Where("course_id = ?", courseID).Count(&moduleCount)

	module := models.CourseModule{
		CourseID:      uint(courseID),
		Title:         input.Title,
		SequenceOrder: int(moduleCount) + 1,
	}

	if err := cc.DB.Create(&module).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create module",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Module added",
		"module":  module,
	})
}

func (cc *CoursesController) AddContent(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("moduleId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid module ID",
		})
	}

	var input struct {
		Type            string `json:"type"`
		Title           string `json:"title"`
		Body            string `json:"body"`
		VideoURL        string `json:"video_url"`
		DurationSeconds int    `json:"duration_seconds"`
		QuizID          uint   `json:"quiz_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Type == "" {
		input.Type = models.ContentLesson
	}
	if input.Type != models.ContentLesson && input.Type != models.ContentReading && input.Type != models.ContentQuiz {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown content type",
		})
	}

	var module models.CourseModule
	if err := cc.DB.First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Module not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var contentCount int64
	cc.DB.Model(&models.ContentItem{}).Where("module_id = ?", moduleID).Count(&contentCount)

	item := models.ContentItem{
		ModuleID:        uint(moduleID),
		Type:            input.Type,
		Title:           input.Title,
		Body:            input.Body,
		VideoURL:        input.VideoURL,
		DurationSeconds: input.DurationSeconds,
		QuizID:          input.QuizID,
		SequenceOrder:   int(contentCount) + 1,
	}

	if err := cc.DB.Create(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create content item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Content added",
		"content": item,
	})
}

func (cc *CoursesController) UpdateContent(c *fiber.Ctx) error {
	contentID, err := strconv.Atoi(c.Params("contentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid content ID",
		})
	}

	var input struct {
		Title           string `json:"title"`
		Body            string `json:"body"`
		VideoURL        string `json:"video_url"`
		DurationSeconds int    `json:"duration_seconds"`
		SequenceOrder   int    `json:"sequence_order"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var item models.ContentItem
	if err := cc.DB.First(&item, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Content not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Body != "" {
		item.Body = input.Body
	}
	if input.VideoURL != "" {
		item.VideoURL = input.VideoURL
	}
	if input.DurationSeconds != 0 {
		item.DurationSeconds = input.DurationSeconds
	}
	if input.SequenceOrder != 0 {
		item.SequenceOrder = input.SequenceOrder
	}

	if err := cc.DB.Save(&item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update content item",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Content updated",
		"content": item,
	})
}
