package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/auth"
	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/database"
	"github.com/iliyamo/files-manager/internal/handler"
	"github.com/iliyamo/files-manager/internal/queue"
	"github.com/iliyamo/files-manager/internal/repository"
	"github.com/iliyamo/files-manager/internal/router"
	"github.com/iliyamo/files-manager/internal/storage"
)

// dispatcherBuffer is how many background jobs may be pending before new
// ones are dropped.
const dispatcherBuffer = 256

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("mysql: %v", err)
	}
	cancel()

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	sessions := repository.NewRedisSessionStore(rdb)
	users := repository.NewUserRepo(db)
	files := repository.NewFileRepo(db)
	blobs := storage.NewLocal(cfg.FolderPath)

	jobs := queue.NewDispatcher(queue.PublishJob, dispatcherBuffer)
	defer jobs.Close()

	resolver := auth.NewResolver(sessions, users, time.Duration(cfg.SessionTTLHours)*time.Hour)

	e := echo.New()
	e.HideBanner = true
	router.Register(e,
		handler.NewAppHandler(sessions, users, files),
		handler.NewAuthHandler(resolver, users, jobs, cfg.BcryptCost),
		handler.NewFilesHandler(files, blobs, jobs),
		resolver, rdb, config.LoadRateLimitConfig())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
