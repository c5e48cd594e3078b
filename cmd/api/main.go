package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"statusboard/internal/api"
	"statusboard/internal/auth"
	"statusboard/internal/board"
	"statusboard/internal/config"
	"statusboard/internal/httpmiddleware"
	"statusboard/internal/sso"
	"statusboard/internal/store"
	"statusboard/internal/user"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	mongoStore, err := store.NewMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoStore.Close(ctx)
	}()

	if err := mongoStore.EnsureIndexes(context.Background()); err != nil {
		log.Printf("warning: index creation failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	sessions := auth.NewSessions(redisClient.Client, cfg.SessionTTL)

	var ssoClient *sso.Client
	if cfg.SSOEnabled {
		ssoClient = sso.New(cfg.SSOMetadataURL, cfg.SSOBypass)
	}

	userRepo := user.NewRepo(mongoStore.DB)
	users := user.NewService(userRepo, cfg.EmailDomain, cfg.MinPasswordLen)
	boardSvc := board.NewService(board.NewRepo(mongoStore.DB), userRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())
	r.Use(httpmiddleware.Metrics())
	r.Use(auth.Authenticate(sessions, cfg.JWTSigningKey, cfg.JWTIssuer, ssoClient.Bypass()))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := api.New(cfg, boardSvc, users, sessions, ssoClient, mongoStore, redisClient)
	server.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
