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

	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/api"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/catalog"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/config"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/convo"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/core"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/index"
	"github.com/YoonJ-C/Spiritual-Path-Assessment/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	catalogPath := flag.String("catalog", config.AppConfig.CatalogPath, "Path to the assessment catalog file")
	flag.Parse()

	// Load the path catalog (questions, weights, path corpora)
	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	if config.AppConfig.ReferenceCSVPath != "" {
		if err := cat.MergeReferenceCSV(config.AppConfig.ReferenceCSVPath); err != nil {
			log.Fatalf("Failed to merge reference corpus: %v", err)
		}
	}
	log.Printf("Catalog loaded: %d questions, %d paths", len(cat.Questions), len(cat.Paths))

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize LLM service
	llmService := core.NewLLMService()
	defer llmService.Close()

	// Build the corpus index. Term-frequency vectors by default; the
	// Gemini embedder is a drop-in alternative behind the same interface.
	var vectorizer index.Vectorizer
	if config.AppConfig.EmbeddingRetrieval {
		log.Println("Using embedding-based retrieval")
		vectorizer = index.VectorizerFunc(llmService.GetEmbedding)
	}
	corpusIndex, err := index.Build(cat, vectorizer, config.AppConfig.MaxChunkChars)
	if err != nil {
		log.Fatalf("Failed to build corpus index: %v", err)
	}

	// Initialize conversation manager and services
	convoManager := convo.NewManager(cat, corpusIndex, config.AppConfig.RetrievalTopK, config.AppConfig.HistoryWindow)
	assessmentService := core.NewAssessmentService(dbStore, cat)
	chatService := core.NewChatService(dbStore, convoManager, llmService)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(dbStore, cat, assessmentService, chatService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
