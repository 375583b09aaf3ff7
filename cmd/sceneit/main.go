package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kmartindale/SceneIt/internal/api"
	"github.com/kmartindale/SceneIt/internal/cache"
	"github.com/kmartindale/SceneIt/internal/config"
	"github.com/kmartindale/SceneIt/internal/db"
	"github.com/kmartindale/SceneIt/internal/jobs"
	"github.com/kmartindale/SceneIt/internal/scheduler"
	"github.com/kmartindale/SceneIt/internal/version"
)

func main() {
	log.Printf("SceneIt %s starting...", version.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, cfg.MigrationsPath); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	cfg.MergeFromDB(database.DB)
	log.Printf("recommender enabled=%v, wikidata=%s", cfg.RecommenderEnabled(), cfg.WikidataURL)

	responseCache := cache.New(cfg.RedisAddr)
	defer responseCache.Close()
	if err := responseCache.Ping(context.Background()); err != nil {
		log.Printf("redis unreachable, continuing without cache: %v", err)
	}

	jobQueue := jobs.NewQueue(cfg.RedisAddr)
	defer jobQueue.Shutdown()

	srv, err := api.NewServer(cfg, database, responseCache, jobQueue)
	if err != nil {
		log.Fatalf("server setup failed: %v", err)
	}

	jobs.RegisterHandlers(jobQueue, srv.ShowRepo(), srv.Builder(), cfg.RecommenderURL)
	if err := jobQueue.Start(); err != nil {
		log.Fatalf("job queue failed: %v", err)
	}

	sched := scheduler.New(jobQueue)
	if err := sched.Start(cfg.AiringRefresh); err != nil {
		log.Fatalf("scheduler failed: %v", err)
	}
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
