package app

import (
	"icehc_portal/docs"
	"icehc_portal/internal/config"
	"icehc_portal/internal/middleware"
	"icehc_portal/internal/model"
	"icehc_portal/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// Public routes: registration and login only.
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Authenticated routes. Any valid token can read its own profile; the
	// rest of the member surface requires an approved membership.
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.member))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.member.UpdateProfile)
		authGroup.PUT("/profile/password", c.member.ChangePassword)

		approved := authGroup.Group("/")
		approved.Use(middleware.ApprovedMiddleware())
		{
			approved.GET("/profile/rank", c.member.GetMyRank)
			approved.GET("/members/:id", c.member.GetMember)
			approved.GET("/leaderboard", c.leaderboard.GetLeaderboard)

			approved.GET("/challenges", c.challenge.ListChallenges)
			approved.GET("/challenges/:id", c.challenge.GetChallenge)
			approved.POST("/challenges/submit", c.scoring.SubmitFlag)
			approved.GET("/solves/recent", c.scoring.SolveFeed)

			approved.GET("/announcements", c.announcement.ListAnnouncements)
			approved.GET("/announcements/:id", c.announcement.GetAnnouncement)

			approved.GET("/events", c.event.ListEvents)
			approved.GET("/events/:id", c.event.GetEvent)
			approved.POST("/events/:id/rsvp", c.event.RSVP)

			approved.GET("/documents", c.document.ListDocuments)
			approved.POST("/documents", c.document.UploadDocument)
			approved.GET("/documents/:id", c.document.GetDocument)
			approved.GET("/documents/:id/download", c.document.DownloadDocument)
			approved.DELETE("/documents/:id", c.document.TrashDocument)

			approved.POST("/conversations", c.chat.OpenConversation)
			approved.GET("/conversations", c.chat.ListConversations)
			approved.POST("/conversations/:id/messages", c.chat.SendMessage)
			approved.GET("/conversations/:id/messages", c.chat.History)
			approved.POST("/conversations/:id/read", c.chat.MarkRead)
			approved.GET("/ws", c.chat.ServeWs)

			approved.GET("/notifications", c.notification.ListNotifications)
			approved.GET("/notifications/unread-count", c.notification.UnreadCount)
			approved.POST("/notifications/:id/read", c.notification.MarkRead)
			approved.POST("/notifications/read-all", c.notification.MarkAllRead)
		}
	}

	// Admin console.
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.member), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/members", c.member.ListMembers)
		admin.PUT("/members/:id/status", c.member.SetStatus)
		admin.PUT("/members/:id/disabled", c.member.SetDisabled)
		admin.POST("/members/:id/reset-points", c.member.ResetPoints)

		admin.GET("/challenges", c.challenge.ListAdmin)
		admin.POST("/challenges", c.challenge.CreateChallenge)
		admin.PUT("/challenges/:id", c.challenge.UpdateChallenge)
		admin.PUT("/challenges/:id/active", c.challenge.SetActive)
		admin.DELETE("/challenges/:id", c.challenge.DeleteChallenge)
		admin.GET("/submissions", c.scoring.SubmissionLogs)

		admin.POST("/announcements", c.announcement.CreateAnnouncement)
		admin.PUT("/announcements/:id", c.announcement.UpdateAnnouncement)
		admin.DELETE("/announcements/:id", c.announcement.DeleteAnnouncement)

		admin.POST("/events", c.event.CreateEvent)
		admin.PUT("/events/:id", c.event.UpdateEvent)
		admin.DELETE("/events/:id", c.event.DeleteEvent)
		admin.GET("/events/:id/attendees", c.event.Attendees)

		admin.GET("/documents/trash", c.document.ListTrash)
		admin.POST("/documents/:id/restore", c.document.RestoreDocument)
		admin.DELETE("/documents/:id/purge", c.document.PurgeDocument)

		// Superadmin-only operations.
		super := admin.Group("/")
		super.Use(middleware.RoleMiddleware(model.RoleSuperadmin))
		{
			super.PUT("/members/:id/role", c.member.SetRole)
			super.DELETE("/members/:id", c.member.DeleteMember)
		}
	}
}
