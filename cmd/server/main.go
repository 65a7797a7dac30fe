package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/smartpos/backoffice/internal/catalog"
	"github.com/smartpos/backoffice/internal/config"
	"github.com/smartpos/backoffice/internal/db"
	"github.com/smartpos/backoffice/internal/httpapi"
	"github.com/smartpos/backoffice/internal/middleware"
	"github.com/smartpos/backoffice/internal/repository"
	"github.com/smartpos/backoffice/internal/seed"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	productRepo := repository.NewProductRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Create catalog services
	productService := catalog.NewProductService(productRepo, categoryRepo)
	categoryService := catalog.NewCategoryService(categoryRepo, productRepo)
	exporter := catalog.NewExporter(productRepo, categoryRepo)

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, userRepo, categoryService, productService); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Products:      productService,
		Categories:    categoryService,
		Searcher:      productRepo,
		Exporter:      exporter,
		Users:         userRepo,
		UserDirectory: userRepo,
		CategoryStore: categoryRepo,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      middleware.Logging(corsHandler.Handler(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting catalog API on %s", cfg.ListenAddr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
