package app

import (
	"classlink_backend/internal/config"
	"classlink_backend/internal/middleware"
	"classlink_backend/internal/model"

	"classlink_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerCommonRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
		a.registerParentRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerCommonRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)
}

// Learning routes are shared by every role: students author and take
// quizzes, parents read shared ones, and anyone can message another user.
func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/quizzes", c.quiz.Create)
	rg.GET("/quizzes", c.quiz.List)
	rg.GET("/quizzes/:quizId", c.quiz.Get)
	rg.PUT("/quizzes/:quizId", c.quiz.Update)
	rg.DELETE("/quizzes/:quizId", c.quiz.Delete)
	rg.POST("/quizzes/:quizId/results", c.quiz.SubmitAttempt)
	rg.GET("/quiz-results", c.quiz.ListResults)

	rg.POST("/calendar/events", c.calendar.Create)
	rg.GET("/calendar/events", c.calendar.List)
	rg.PUT("/calendar/events/:eventId", c.calendar.Update)
	rg.PATCH("/calendar/events/:eventId/complete", c.calendar.MarkCompleted)
	rg.DELETE("/calendar/events/:eventId", c.calendar.Delete)

	rg.POST("/homework-reviews", c.homework.Create)
	rg.GET("/homework-reviews", c.homework.List)
	rg.GET("/homework-reviews/:reviewId", c.homework.Get)
	rg.PUT("/homework-reviews/:reviewId", c.homework.Update)
	rg.DELETE("/homework-reviews/:reviewId", c.homework.Delete)

	rg.POST("/messages", c.message.Send)
	rg.GET("/messages", c.message.List)
	rg.PATCH("/messages/:messageId/read", c.message.MarkRead)
	rg.DELETE("/messages/:messageId", c.message.Delete)
}

func (a *App) registerParentRoutes(rg *gin.RouterGroup, c *controllers) {
	parent := rg.Group("/parent")
	parent.Use(middleware.RoleMiddleware(model.Parent))
	{
		parent.GET("/classroom", c.rollup.GetRollup)
		parent.POST("/classroom/refresh", c.rollup.RefreshAll)
		parent.POST("/classroom/children/:childId/refresh", c.rollup.RefreshChild)

		parent.POST("/linking/redeem", c.linking.RedeemCode)
		parent.GET("/relations", c.linking.ListRelations)
		parent.DELETE("/relations/:relationId", c.linking.RemoveRelation)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	student := rg.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/linking/codes", c.linking.GenerateCode)
		student.GET("/linking/codes", c.linking.ListCodes)

		classroom := student.Group("/classroom")
		{
			classroom.GET("/status", c.classroom.GetStatus)
			classroom.GET("/courses", c.classroom.GetCourses)
			classroom.GET("/upcoming", c.classroom.GetUpcomingWork)
			classroom.GET("/submissions", c.classroom.GetSubmissions)
			classroom.DELETE("/link", c.classroom.Unlink)

			classroom.GET("/sync-logs", c.classroom.GetSyncLogs)
			classroom.POST("/sync-logs", c.classroom.CreateSyncLog)
			classroom.PATCH("/sync-logs/:logId", c.classroom.UpdateSyncLog)
		}
	}
}
