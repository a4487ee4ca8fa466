package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"myjourney-be/internal/bootstrap"
	"myjourney-be/internal/config"
	"myjourney-be/internal/model"
	"myjourney-be/internal/server"
	"myjourney-be/internal/tracer"
	"myjourney-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional: empty DSN means local-only mode)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := database.Migrate(db, &model.User{}, &model.UserProvider{}, &model.StorySession{}); err != nil {
			log.Panicf("Unable to migrate schema: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Sync Worker...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Sync Worker Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server, drain live rides on shutdown so in-flight chapters land
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down, draining active rides...")
		container.RideService.DrainAll()
		srv.GetApp().Shutdown()
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
