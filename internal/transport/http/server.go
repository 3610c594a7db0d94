package http

import (
	"context"
	"fmt"
	"log/slog"
	stdhttp "net/http"

	"blognest/internal/config"
	"blognest/internal/database"
	"blognest/internal/handler"
	"blognest/internal/httputil"
	"blognest/internal/oauth"
	"blognest/internal/redis"
	"blognest/internal/repository"
	"blognest/internal/service"
)

// Run wires the whole application together and serves HTTP until the
// listener fails.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis (share counters)
	cache, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer cache.Close()
	if err := cache.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 5. Services
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo)
	oauthService := service.NewOAuthService(userRepo)
	blogService := service.NewBlogService(blogRepo, commentRepo)
	commentService := service.NewCommentService(commentRepo)
	statsService := service.NewStatsService(blogRepo, cache)

	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media storage: %w", err)
	}

	providers := map[string]oauth.Provider{
		"google": oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL),
		"github": oauth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL),
	}

	// 6. Handlers
	errs := httputil.NewClassifier(!cfg.IsProduction())
	userHandler := handler.NewUserHandler(userService, tokenService, cfg, errs)
	authHandler := handler.NewAuthHandler(providers, oauthService, tokenService, cfg, errs)
	blogHandler := handler.NewBlogHandler(blogService, mediaService, statsService, errs)
	commentHandler := handler.NewCommentHandler(commentService, errs)

	router := NewRouter(RouterConfig{
		UserHandler:    userHandler,
		AuthHandler:    authHandler,
		BlogHandler:    blogHandler,
		CommentHandler: commentHandler,
		TokenService:   tokenService,
		BlogRepo:       blogRepo,
		Errors:         errs,
	})

	addr := ":" + cfg.ServerPort
	slog.Info("starting server", "addr", addr, "environment", cfg.Environment)
	return stdhttp.ListenAndServe(addr, router)
}
