package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cramdeck.app/backend/internal/api"
	"cramdeck.app/backend/internal/config"
	"cramdeck.app/backend/internal/core"
	"cramdeck.app/backend/internal/logger"
	"cramdeck.app/backend/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	appLog, err := logger.New(config.AppConfig.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	schemaEnforced := flag.Bool("schema-enforced", true, "Pass the response schema to the backend (single attempt) instead of best-effort retrying")
	flag.Parse()

	// Initialize the user store
	fileStore, err := store.NewFileStore(config.AppConfig.UsersFile)
	if err != nil {
		log.Fatalf("Failed to initialize user store: %v", err)
	}

	// Initialize the generation client
	genClient, err := core.NewClient(context.Background(), config.AppConfig.GeminiAPIKey, core.ClientOptions{
		Model:          config.AppConfig.GeminiModel,
		SchemaEnforced: *schemaEnforced,
		MaxAttempts:    config.AppConfig.GenerationAttempts,
	}, appLog)
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}
	defer genClient.Close()

	// Initialize services
	userService := core.NewUserService(fileStore, appLog)
	courseService := core.NewCourseService(fileStore, genClient, appLog)
	summaryService := core.NewSummaryService(fileStore, genClient, core.SummaryLimits{
		MaxUploadBytes:    config.AppConfig.MaxUploadBytes,
		MaxDocumentTokens: config.AppConfig.MaxDocumentTokens,
	}, appLog)

	// Initialize API handler and router
	apiHandler := api.NewAPIHandler(userService, courseService, summaryService, config.AppConfig.MaxUploadBytes, appLog)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can take a while
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		appLog.Info("server starting", "addr", serverAddr, "schema_enforced", *schemaEnforced)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLog.Info("server exited gracefully")
}
