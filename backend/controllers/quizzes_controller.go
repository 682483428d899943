package controllers

import (
	"encoding/json"
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

type QuizzesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Streak   *services.StreakService
	Progress *services.ProgressService
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config) *QuizzesController {
	st := store.NewGormStore(db)
	return &QuizzesController{
		DB:       db,
		Cfg:      cfg,
		Streak:   services.NewStreakService(st),
		Progress: services.NewProgressService(st),
	}
}

func (qc *QuizzesController) GetQuizDetails(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid quiz ID",
		})
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Quiz not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Questions go out without the correct answers.
	var questions []fiber.Map
	for _, q := range quiz.Questions {
		questions = append(questions, fiber.Map{
			"id":             q.ID,
			"question":       q.Question,
			"options":        q.Options,
			"sequence_order": q.SequenceOrder,
		})
	}

	return c.JSON(fiber.Map{
		"id":         quiz.ID,
		"title":      quiz.Title,
		"short_desc": quiz.ShortDesc,
		"questions":  questions,
	})
}

// SubmitAttempt grades the submitted answers, appends an immutable attempt
// record, and extends the day's streak.
func (qc *QuizzesController) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	type AnswerInput struct {
		QuestionID uint `json:"question_id"`
		Answer     int  `json:"answer"`
	}
	var input struct {
		Answers []AnswerInput `json:"answers"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	if err := qc.DB.Preload("Questions").First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	correctAnswers := 0
	byID := make(map[uint]models.QuizQuestion, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q
	}
	for _, answer := range input.Answers {
		q, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}
		if answer.Answer == q.CorrectAnswer {
			correctAnswers++
		}
	}

	score := 0.0
	if len(quiz.Questions) > 0 {
		score = float64(correctAnswers) / float64(len(quiz.Questions)) * 100
	}

	answersJSON, _ := json.Marshal(input.Answers)
	attempt, err := qc.Progress.SaveQuizAttempt(userID, uint(quizID), score, string(answersJSON))
	if err != nil {
		return serviceError(c, err)
	}

	// Finishing a quiz is zero-duration activity; it still extends the streak.
	summary, err := qc.Streak.UpdateStreakOnly(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Attempt recorded",
		"attempt": fiber.Map{
			"id":           attempt.ID,
			"score":        attempt.Score,
			"submitted_at": attempt.SubmittedAt,
		},
		"correct_answers": correctAnswers,
		"streak":          summary.Streak,
	})
}

func (qc *QuizzesController) GetBestAttempt(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	best, err := qc.Progress.GetBestQuizAttempt(userID, uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}
	if best == nil {
		return c.JSON(fiber.Map{
			"attempt": nil,
		})
	}

	return c.JSON(fiber.Map{
		"attempt": fiber.Map{
			"id":           best.ID,
			"score":        best.Score,
			"submitted_at": best.SubmittedAt,
		},
	})
}

func (qc *QuizzesController) GetAttempts(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	attempts, err := qc.Progress.ListQuizAttempts(userID, uint(quizID))
	if err != nil {
		return serviceError(c, err)
	}

	var result []fiber.Map
	for _, a := range attempts {
		result = append(result, fiber.Map{
			"id":           a.ID,
			"score":        a.Score,
			"submitted_at": a.SubmittedAt,
		})
	}

	return c.JSON(fiber.Map{
		"attempts": result,
	})
}

func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var quiz models.Quiz
	if err := c.BodyParser(&quiz); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	quiz.AuthorID = userID

	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return c.JSON(fiber.Map{
		"message": "Quiz created",
		"quiz":    quiz,
	})
}

func (qc *QuizzesController) AddQuestion(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input struct {
		Question      string `json:"question"`
		Options       string `json:"options"`
		CorrectAnswer int    `json:"correct_answer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var questionCount int64
	qc.DB.Model(&models.QuizQuestion{}).Where("quiz_id = ?", quizID).Count(&questionCount)

	question := models.QuizQuestion{
		QuizID:        uint(quizID),
		Question:      input.Question,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		SequenceOrder: int(questionCount) + 1,
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}

	return c.JSON(fiber.Map{
		"message":  "Question added",
		"question": question,
	})
}
