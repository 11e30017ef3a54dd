package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AbdulBaasithere/socializeNotion/config"
	"github.com/AbdulBaasithere/socializeNotion/internal/access"
	"github.com/AbdulBaasithere/socializeNotion/internal/directory"
	"github.com/AbdulBaasithere/socializeNotion/internal/hierarchy"
	"github.com/AbdulBaasithere/socializeNotion/internal/middleware"
	"github.com/AbdulBaasithere/socializeNotion/internal/models"
	"github.com/AbdulBaasithere/socializeNotion/internal/social"
	"github.com/AbdulBaasithere/socializeNotion/internal/svc"
	"github.com/AbdulBaasithere/socializeNotion/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	utils.InitLogger(cfg.AppEnv)
	defer zap.L().Sync()

	sc := svc.NewServiceContext(cfg)
	defer sc.Close()

	err = sc.DB.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Folder{},
		&models.Note{},
		&models.Collaboration{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
	)
	if err != nil {
		zap.L().Fatal("failed to migrate database", zap.Error(err))
	}

	accessService := access.NewService(sc.DB, cfg)
	store := hierarchy.NewStore(sc.DB, cfg, accessService)
	engine := social.NewEngine(sc.DB, cfg)

	dirHandler := directory.NewHandler(sc, directory.NewService(sc.DB, cfg))
	accessHandler := access.NewHandler(sc, accessService)
	treeHandler := hierarchy.NewHandler(sc, store)
	socialHandler := social.NewHandler(sc, engine)

	r := gin.Default()
	r.Use(middleware.LoggerMiddleware())

	r.POST("/register", middleware.RateLimitMiddleware(sc.Cache, "register", 10, time.Minute), dirHandler.Register)
	r.POST("/login", middleware.RateLimitMiddleware(sc.Cache, "login", 20, time.Minute), dirHandler.Login)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(cfg, sc.Cache))
	{
		users := auth.Group("/users")
		{
			users.POST("/logout", dirHandler.Logout)
			users.GET("/me", dirHandler.Me)
			users.PUT("/me", dirHandler.UpdateProfile)
			users.GET("/discover", socialHandler.Discover)
			users.GET("/search", socialHandler.SearchUsers)

			users.GET("/:id", dirHandler.GetProfile)
			users.POST("/:id/follow", socialHandler.Follow)
			users.DELETE("/:id/follow", socialHandler.Unfollow)
			users.GET("/:id/followers", socialHandler.Followers)
			users.GET("/:id/following", socialHandler.Following)
			users.GET("/:id/posts", socialHandler.UserPosts)
		}

		folders := auth.Group("/folders")
		{
			folders.GET("", treeHandler.ListFolders)
			folders.GET("/tree", treeHandler.Tree)
			folders.POST("", treeHandler.CreateFolder)
			folders.PUT("/:id", treeHandler.UpdateFolder)
			folders.DELETE("/:id", treeHandler.DeleteFolder)
			folders.GET("/:id/breadcrumb", treeHandler.Breadcrumb)
		}

		notes := auth.Group("/notes")
		{
			notes.GET("", treeHandler.ListNotes)
			notes.GET("/search", treeHandler.SearchNotes)
			notes.GET("/shared-with-me", accessHandler.SharedWithMe)
			notes.GET("/shared-by-me", accessHandler.SharedByMe)
			notes.POST("", treeHandler.CreateNote)
			notes.GET("/:id", treeHandler.GetNote)
			notes.PUT("/:id", treeHandler.UpdateNote)
			notes.DELETE("/:id", treeHandler.DeleteNote)

			notes.GET("/:id/collaborators", accessHandler.ListCollaborators)
			notes.POST("/:id/collaborators", accessHandler.Grant)
			notes.DELETE("/:id/collaborators/:userId", accessHandler.Revoke)
		}

		posts := auth.Group("/posts")
		{
			posts.GET("/feed", socialHandler.Feed)
			posts.POST("", socialHandler.CreatePost)
			posts.GET("/:id", socialHandler.GetPost)
			posts.PUT("/:id", socialHandler.UpdatePost)
			posts.DELETE("/:id", socialHandler.DeletePost)

			posts.POST("/:id/like", socialHandler.ToggleLike)
			posts.DELETE("/:id/like", socialHandler.Unlike)
			posts.GET("/:id/comments", socialHandler.ListComments)
			posts.POST("/:id/comments", socialHandler.AddComment)
			posts.DELETE("/:id/comments/:comment_id", socialHandler.DeleteComment)
		}
	}

	addr := ":" + cfg.ServerPort
	zap.L().Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
