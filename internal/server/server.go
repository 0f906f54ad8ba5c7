package server

import (
	"strings"
	"time"

	"dailybrush/internal/authz"
	"dailybrush/internal/config"
	"dailybrush/internal/middleware"
	"dailybrush/pkg/storage"

	challengeHttp "dailybrush/internal/modules/challenge/delivery/http"
	challengeRepo "dailybrush/internal/modules/challenge/repository"
	challengeService "dailybrush/internal/modules/challenge/service"

	commentHttp "dailybrush/internal/modules/comment/delivery/http"
	commentRepo "dailybrush/internal/modules/comment/repository"
	commentService "dailybrush/internal/modules/comment/service"

	followHttp "dailybrush/internal/modules/follow/delivery/http"
	followRepo "dailybrush/internal/modules/follow/repository"
	followService "dailybrush/internal/modules/follow/service"

	likeHttp "dailybrush/internal/modules/like/delivery/http"
	likeRepo "dailybrush/internal/modules/like/repository"
	likeService "dailybrush/internal/modules/like/service"

	profileHttp "dailybrush/internal/modules/profile/delivery/http"
	profileRepo "dailybrush/internal/modules/profile/repository"
	profileService "dailybrush/internal/modules/profile/service"

	searchHttp "dailybrush/internal/modules/search/delivery/http"
	searchService "dailybrush/internal/modules/search/service"

	submissionHttp "dailybrush/internal/modules/submission/delivery/http"
	submissionRepo "dailybrush/internal/modules/submission/repository"
	submissionService "dailybrush/internal/modules/submission/service"

	uploadHttp "dailybrush/internal/modules/upload/delivery/http"

	userHttp "dailybrush/internal/modules/user/delivery/http"
	userRepo "dailybrush/internal/modules/user/repository"
	userService "dailybrush/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, imageStorage storage.ImageStorage) *Server {
	policy := authz.NewPolicy(cfg.AdminEmails)

	var searchSvc searchService.SearchService
	if cfg.MeiliMasterKey != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewMeiliSearchService(meiliClient)
	}

	profileRepository := profileRepo.NewProfileRepository(db)
	profileSvc := profileService.NewProfileService(profileRepository, policy)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	registrationHook := profileService.NewRegistrationHook()

	userRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTTTL, registrationHook)
	authHandler := userHttp.NewAuthHandler(authSvc)

	challengeRepository := challengeRepo.NewChallengeRepository(db)
	challengeSvc := challengeService.NewChallengeService(challengeRepository, policy, searchSvc)
	challengeHandler := challengeHttp.NewChallengeHandler(challengeSvc)

	submissionRepository := submissionRepo.NewSubmissionRepository(db)
	submissionSvc := submissionService.NewSubmissionService(submissionRepository, challengeRepository, profileRepository, policy, searchSvc)
	submissionHandler := submissionHttp.NewSubmissionHandler(submissionSvc)

	likeRepository := likeRepo.NewLikeRepository(db)
	likeSvc := likeService.NewLikeService(likeRepository, submissionRepository, policy)
	likeHandler := likeHttp.NewLikeHandler(likeSvc)

	commentRepository := commentRepo.NewCommentRepository(db)
	commentSvc := commentService.NewCommentService(commentRepository, submissionRepository, policy)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	followRepository := followRepo.NewFollowRepository(db)
	followSvc := followService.NewFollowService(followRepository, profileRepository, policy)
	followHandler := followHttp.NewFollowHandler(followSvc)

	uploadHandler := uploadHttp.NewUploadHandler(imageStorage)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	writeLimit := middleware.RateLimit(redisClient, cfg.RateLimitWrites, cfg.RateLimitWindow, "writes")

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimit(redisClient, cfg.RateLimitWrites, cfg.RateLimitWindow, "auth"), authHandler.Register)
		auth.POST("/login", middleware.RateLimit(redisClient, cfg.RateLimitWrites, cfg.RateLimitWindow, "auth"), authHandler.Login)
	}

	// Public reads resolve the actor when a token is present so per-viewer
	// enrichment (has_liked, is_following) works for signed-in clients too.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/challenges", challengeHandler.GetAllChallenges)
		public.GET("/challenges/today", challengeHandler.GetToday)
		public.GET("/challenges/:id", challengeHandler.GetChallenge)
		public.GET("/challenges/:id/submissions", submissionHandler.GetSubmissionsByChallenge)

		public.GET("/submissions", submissionHandler.GetFeed)
		public.GET("/submissions/:id", submissionHandler.GetSubmission)
		public.GET("/submissions/:id/comments", commentHandler.GetCommentsBySubmission)

		public.GET("/profiles/:username", profileHandler.GetProfileByUsername)
		public.GET("/profiles/:username/followers", followHandler.GetFollowers)
		public.GET("/profiles/:username/following", followHandler.GetFollowing)
		public.GET("/users/:username/submissions", submissionHandler.GetSubmissionsByUsername)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", writeLimit, profileHandler.UpdateProfile)
		protected.DELETE("/profile", authHandler.DeleteAccount)

		protected.POST("/submissions", writeLimit, submissionHandler.CreateSubmission)
		protected.PUT("/submissions/:id", writeLimit, submissionHandler.UpdateSubmission)
		protected.DELETE("/submissions/:id", writeLimit, submissionHandler.DeleteSubmission)

		protected.POST("/submissions/:id/like", writeLimit, likeHandler.LikeSubmission)
		protected.DELETE("/submissions/:id/like", writeLimit, likeHandler.UnlikeSubmission)

		protected.POST("/submissions/:id/comments", writeLimit, commentHandler.CreateComment)
		protected.PUT("/comments/:id", writeLimit, commentHandler.UpdateComment)
		protected.DELETE("/comments/:id", writeLimit, commentHandler.DeleteComment)

		protected.POST("/profiles/:username/follow", writeLimit, followHandler.FollowUser)
		protected.DELETE("/profiles/:username/follow", writeLimit, followHandler.UnfollowUser)

		protected.POST("/upload", writeLimit, uploadHandler.UploadImage)
		protected.GET("/search/token", searchHandler.GetSearchToken)

		// Challenge mutations stay admin-only through the policy; the route
		// group just keeps them off the public surface.
		adminGroup := protected.Group("/admin")
		{
			adminGroup.POST("/challenges", challengeHandler.CreateChallenge)
			adminGroup.PUT("/challenges/:id", challengeHandler.UpdateChallenge)
			adminGroup.DELETE("/challenges/:id", challengeHandler.DeleteChallenge)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
