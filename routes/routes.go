package routes

import (
	"editorial-api/controllers"
	"editorial-api/middleware"
	"editorial-api/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every endpoint. Read-only routes are gated here with
// RequirePermission; mutating routes authenticate here and authorize inside
// the lifecycle service, which resolves the capability per operation (and
// per workflow edge for transitions).
func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Editorial Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/refresh", controllers.RefreshToken)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile", controllers.UpdateProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Journals and sections (public metadata)
			journals := protected.Group("/journals")
			{
				journals.GET("", middleware.RequirePermission(services.PermViewPublishedArticles), controllers.GetJournals)
				journals.GET("/:slug", middleware.RequirePermission(services.PermViewPublishedArticles), controllers.GetJournal)
			}
			adminJournals := protected.Group("/admin/journals")
			adminJournals.Use(middleware.RequirePermission(services.PermManageJournals))
			{
				adminJournals.POST("", controllers.CreateJournal)
				adminJournals.PUT("/:id", controllers.UpdateJournal)
				adminJournals.POST("/:id/sections", controllers.CreateSection)
			}

			// Workflow graph
			workflow := protected.Group("/workflow")
			{
				workflow.GET("", middleware.RequirePermission(services.PermViewSubmissions), controllers.GetWorkflow)

				admin := workflow.Group("")
				admin.Use(middleware.RequirePermission(services.PermManageSettings))
				{
					admin.POST("/states", controllers.CreateWorkflowState)
					admin.POST("/transitions", controllers.CreateWorkflowTransition)
					admin.DELETE("/transitions/:id", controllers.DeleteWorkflowTransition)
				}
			}

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.GET("", middleware.RequirePermission(services.PermViewSubmissions), controllers.GetManuscripts)
				manuscripts.GET("/:id", middleware.RequirePermission(services.PermViewSubmissions), controllers.GetManuscript)
				manuscripts.GET("/:id/next-states", controllers.GetNextStates)
				manuscripts.GET("/:id/rounds", middleware.RequirePermission(services.PermViewSubmissions), controllers.GetReviewRounds)

				// Mutations authorize inside the lifecycle service
				manuscripts.POST("", controllers.SubmitManuscript)
				manuscripts.POST("/:id/versions", controllers.ReviseManuscript)
				manuscripts.POST("/:id/transition", controllers.TransitionManuscript)
				manuscripts.POST("/:id/editors", controllers.AssignEditor)
				manuscripts.POST("/:id/decisions", controllers.RecordDecision)
				manuscripts.POST("/:id/decide", controllers.DecideManuscript)
				manuscripts.POST("/:id/rounds", controllers.OpenReviewRound)
			}

			// Reviews
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/assignments", controllers.GetMyAssignments)
				reviews.POST("/rounds/:round_id/assignments", controllers.AssignReviewer)
				reviews.POST("/rounds/:round_id/reviews", controllers.SubmitReview)
				reviews.PUT("/assignments/:assignment_id/complete", controllers.CompleteAssignment)
				reviews.POST("/:review_id/files", controllers.UploadReviewFile)
			}

			// User and role administration
			admin := protected.Group("/admin")
			{
				admin.GET("/users", middleware.RequirePermission(services.PermManageUsers), controllers.GetUsers)
				admin.POST("/users/:id/roles", middleware.RequirePermission(services.PermManageUsers), controllers.AssignRole)
				admin.DELETE("/users/:id/roles/:role_id", middleware.RequirePermission(services.PermManageUsers), controllers.RemoveRole)

				admin.GET("/roles", middleware.RequirePermission(services.PermManageRolesPerms), controllers.GetRoles)
				admin.GET("/permissions", middleware.RequirePermission(services.PermManageRolesPerms), controllers.GetPermissions)
				admin.POST("/roles/:id/permissions", middleware.RequirePermission(services.PermManageRolesPerms), controllers.GrantPermission)
			}
		}
	}
}
