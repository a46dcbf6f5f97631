package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atakamran/LiftLegendsBack/internal/config"
	"github.com/atakamran/LiftLegendsBack/internal/database"
	"github.com/atakamran/LiftLegendsBack/internal/metrics"
	"github.com/atakamran/LiftLegendsBack/internal/routes"
	notifyws "github.com/atakamran/LiftLegendsBack/internal/websocket"
	"github.com/atakamran/LiftLegendsBack/internal/worker"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(cfg.DBUrl); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB()

	metrics.Register()

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	hub := notifyws.NewHub()
	go hub.Run()

	subscriptionService := routes.RegisterRoutes(app, cfg, database.DB, hub)

	// 4. Background reconciler
	reconciler := worker.NewReconciler(subscriptionService, slog.Default())
	if err := reconciler.Start(); err != nil {
		log.Fatalf("Failed to start reconciler: %v", err)
	}
	defer reconciler.Stop()

	// 5. Start Server
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
