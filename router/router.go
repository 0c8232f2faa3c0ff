package router

import (
	"SendBay/config"
	"SendBay/internal/handler"
	"SendBay/utils"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// InitRouter builds API routes.
func InitRouter() *gin.Engine {
	r := gin.Default()
	r.Use(utils.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.Static("/uploads/avatars", filepath.Join(config.AppConfig.UploadDir, "avatars"))
	r.Static("/uploads/logos", filepath.Join(config.AppConfig.UploadDir, "logos"))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.GET("/setup", handler.Setup)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/register", handler.Register)

			authed := authGroup.Group("")
			authed.Use(utils.AuthMiddleware())
			{
				authed.GET("/me", handler.Me)
				authed.PATCH("/profile", handler.UpdateProfile)
				authed.POST("/change-password", handler.ChangePassword)
				authed.POST("/avatar", handler.UploadAvatar)
				authed.DELETE("/avatar", handler.DeleteAvatar)
			}
		}

		settings := api.Group("/settings")
		{
			settings.GET("", handler.GetSettings)

			admin := settings.Group("")
			admin.Use(utils.AuthMiddleware(), utils.AdminOnly())
			{
				admin.GET("/smtp", handler.GetSMTPSettings)
				admin.PATCH("/smtp", handler.UpdateSMTPSettings)
				admin.POST("/smtp/test", handler.TestSMTP)
				admin.PATCH("/name", handler.UpdateAppName)
				admin.PATCH("/site-url", handler.UpdateSiteURL)
				admin.PATCH("/uploader-fields", handler.UpdateUploaderFields)
				admin.PATCH("/registration", handler.UpdateRegistrationPolicy)
				admin.POST("/logo", handler.UploadLogo)
				admin.DELETE("/logo", handler.DeleteLogo)
			}
		}

		users := api.Group("/users")
		users.Use(utils.AuthMiddleware(), utils.AdminOnly())
		{
			users.GET("", handler.ListUsers)
			users.POST("", handler.CreateUser)
			users.PATCH("/:id", handler.UpdateUser)
			users.DELETE("/:id", handler.DeleteUser)
		}

		files := api.Group("/files")
		files.Use(utils.AuthMiddleware())
		{
			files.POST("", handler.UploadFiles)
			files.GET("", handler.ListFiles)
			files.GET("/:id", handler.GetFile)
			files.DELETE("/:id", handler.DeleteFile)
		}

		shares := api.Group("/shares")
		{
			shares.GET("/:token/info", handler.ShareInfo)
			shares.POST("/:token/download", handler.ShareDownload)
			shares.POST("/send-email", utils.AuthMiddleware(), handler.SendShareEmail)
		}

		// management routes carry the numeric id in the :token position;
		// gin requires one param name per segment
		requests := api.Group("/upload-requests")
		{
			requests.GET("/:token/info", handler.UploadRequestInfo)
			requests.POST("/:token/upload", handler.DepositFiles)

			authed := requests.Group("")
			authed.Use(utils.AuthMiddleware())
			{
				authed.POST("", handler.CreateUploadRequest)
				authed.GET("", handler.ListUploadRequests)
				authed.GET("/:token/files", handler.ListReceivedFiles)
				authed.GET("/:token/received/:fileID/download", handler.DownloadReceivedFile)
				authed.PATCH("/:token/toggle", handler.ToggleUploadRequest)
				authed.DELETE("/:token", handler.DeleteUploadRequest)
			}
		}

		admin := api.Group("/admin")
		admin.Use(utils.AuthMiddleware(), utils.AdminOnly())
		{
			admin.GET("/stats", handler.AdminStats)
			admin.POST("/cleanup", handler.AdminCleanup)
			admin.GET("/files", handler.AdminListFiles)
			admin.GET("/upload-requests", handler.AdminListUploadRequests)
		}
	}
	return r
}
