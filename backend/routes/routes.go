package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Activity and progress routes
	progressController := controllers.NewProgressController(db, cfg)
	app.Post("/api/activity", authMiddleware, progressController.RecordActivity)
	app.Get("/api/progress/overview", authMiddleware, progressController.GetProgressOverview)
	app.Post("/api/lessons/:id/progress", authMiddleware, progressController.UpdateLessonProgress)
	app.Post("/api/lessons/:id/complete", authMiddleware, progressController.MarkLessonComplete)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/progress", progressController.GetCourseProgress)
	courses.Post("/:id/lessons/:lessonId/progress", progressController.UpdateCourseLessonProgress)

	// Quizzes routes
	quizzesController := controllers.NewQuizzesController(db, cfg)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/:id", quizzesController.GetQuizDetails)
	quizzes.Post("/:id/attempts", quizzesController.SubmitAttempt)
	quizzes.Get("/:id/attempts", quizzesController.GetAttempts)
	quizzes.Get("/:id/attempts/best", quizzesController.GetBestAttempt)

	// Admin routes for courses
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Post("/:id/modules", coursesController.AddModule)
	adminCourses.Post("/modules/:moduleId/contents", coursesController.AddContent)
	adminCourses.Put("/contents/:contentId", coursesController.UpdateContent)

	// Admin routes for quizzes
	adminQuizzes := app.Group("/api/admin/quizzes", authMiddleware, adminMiddleware)
	adminQuizzes.Post("/", quizzesController.CreateQuiz)
	adminQuizzes.Post("/:id/questions", quizzesController.AddQuestion)
}
