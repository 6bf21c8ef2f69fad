package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/shortlist/internal/app"
	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.Info("Starting Shortlist API Server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Dependency Container
	container, err := app.NewContainer(ctx, cfg, app.Options{Evaluator: true, Queue: true, Server: true})
	if err != nil {
		logx.Fatalf("Failed to initialize: %v", err)
	}
	defer container.Close()

	// 3. Create Fiber App with Config
	server := newServer(container)

	// 4. Background decompression worker
	if container.Worker != nil {
		container.Worker.Start(ctx)
	}

	// 5. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Server.Port)
		if err := server.Listen(":" + cfg.Server.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	<-sig
	logx.Info("Shutting down server...")
	cancel()

	if err := server.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

func newServer(container *app.Container) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "Shortlist API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
	})

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, HEAD",
	}))
	server.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	server.Use(container.Metrics.Middleware())

	server.Get("/health", func(c *fiber.Ctx) error {
		status := container.Health(c.UserContext())
		status["status"] = "ok"
		return c.JSON(status)
	})

	server.Get("/metrics", container.Metrics.Handler())

	// /api/runs, /api/applicants/:id/decompress, /api/shortlist/preview
	container.ApplicantHandlers.RegisterRoutes(server, container.UnifiedAuthMiddleware)

	return server
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	var e *errx.Error
	if errors.As(err, &e) {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.Errorf("%s %s: %v", c.Method(), c.Path(), e)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
