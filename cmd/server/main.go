package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bt23mme076-gif/atyant-sub000/internal/config"
	"github.com/bt23mme076-gif/atyant-sub000/internal/database"
	"github.com/bt23mme076-gif/atyant-sub000/internal/handlers"
	"github.com/bt23mme076-gif/atyant-sub000/internal/middleware"
	"github.com/bt23mme076-gif/atyant-sub000/internal/routes"
	"github.com/bt23mme076-gif/atyant-sub000/internal/services"
	"github.com/bt23mme076-gif/atyant-sub000/internal/store"
	"github.com/bt23mme076-gif/atyant-sub000/pkg/logger"
)

func main() {
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting Atyant backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect()
	database.InitRedis()

	// Indexes are created by cmd/indexes, not at boot.

	// Wire handlers: stores plus external collaborators.
	storage, err := services.NewStorageService()
	if err != nil {
		logger.Warn().Err(err).Msg("Avatar storage disabled")
		storage = nil
	}
	handlers.Init(
		store.NewMongoStores(database.Client),
		services.NewEmailService(),
		services.NewPaymentService(),
		services.NewFacultyService(),
		storage,
	)
	handlers.InitOAuthConfig()

	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())

	routes.Register(r)

	// Socket.IO mounts at the root, outside the /api rate-limit group.
	socketServer := handlers.InitSocketServer()
	defer socketServer.Close()
	r.GET("/socket.io/*any", handlers.SocketHandler(socketServer))
	r.POST("/socket.io/*any", handlers.SocketHandler(socketServer))

	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Mongo disconnect failed")
	}

	logger.Info().Msg("Server exited gracefully")
}
