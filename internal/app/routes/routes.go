package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/acetrack/internal/app/controllers"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/middleware"
)

// Controllers groups every handler mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	StudyPlan    *controllers.StudyPlanController
	Parent       *controllers.ParentController
	Quiz         *controllers.QuizController
	Flashcard    *controllers.FlashcardController
	Progress     *controllers.ProgressController
	Notification *controllers.NotificationController
	Curriculum   *controllers.CurriculumController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", c.Health.Health)

	api := router.Group("/api")

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/verify", c.Auth.VerifyToken)
	}
	api.GET("/curriculum", c.Curriculum.List)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)

		profile := authenticated.Group("/profile")
		{
			profile.GET("", c.Profile.GetProfile)
			profile.POST("", c.Profile.SaveProfile)
			profile.PUT("", c.Profile.SaveProfile)
		}

		studyPlan := authenticated.Group("/study-plan")
		{
			studyPlan.GET("", c.StudyPlan.GetCurrentPlan)
			studyPlan.POST("", c.StudyPlan.CreatePlan)
			studyPlan.PATCH("/session/:sessionId", c.StudyPlan.UpdateSession)
			studyPlan.PUT("/session/:sessionId", c.StudyPlan.UpdateSession)
		}

		parent := authenticated.Group("/parent")
		parent.Use(authMiddleware.RoleRequired(models.RoleParent))
		{
			parent.POST("/link", c.Parent.LinkStudent)
			parent.GET("/child-data", c.Parent.ChildData)
		}

		quiz := authenticated.Group("/quiz")
		{
			quiz.POST("/attempt", c.Quiz.RecordAttempt)
			quiz.GET("/history", c.Quiz.History)
			quiz.GET("/quizzes", c.Quiz.ListQuizzes)
			quiz.GET("/quizzes/:id", c.Quiz.GetQuiz)
		}

		flashcards := authenticated.Group("/flashcards")
		{
			flashcards.GET("/subjects", c.Flashcard.Subjects)
			flashcards.GET("/subject/:subjectId", c.Flashcard.BySubject)
			flashcards.POST("", c.Flashcard.Create)
			flashcards.PUT("/:id/review", c.Flashcard.Review)
			flashcards.DELETE("/:id", c.Flashcard.Delete)
		}

		progress := authenticated.Group("/progress")
		{
			progress.GET("", c.Progress.List)
			progress.POST("", c.Progress.Record)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.Feed)
			notifications.PUT("/:id/read", c.Notification.MarkRead)
			notifications.GET("/ws", c.Notification.Stream)
		}

		// Curriculum changes are faculty only
		curriculum := authenticated.Group("/curriculum")
		curriculum.Use(authMiddleware.RoleRequired(models.RoleFaculty))
		{
			curriculum.POST("", c.Curriculum.AddTopic)
			curriculum.DELETE("/:id", c.Curriculum.DeleteTopic)
		}
	}
}
