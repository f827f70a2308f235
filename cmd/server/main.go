package main

import (
	"log"

	"github.com/goalforge/goalforge-api/internal/config"
	"github.com/goalforge/goalforge-api/internal/database"
	"github.com/goalforge/goalforge-api/internal/handlers"
	"github.com/goalforge/goalforge-api/internal/routes"
	"github.com/goalforge/goalforge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cipher, err := services.NewKeyCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize key encryption: %v", err)
	}
	handlers.Cipher = cipher
	handlers.Generator = &services.OpenAICompleter{Model: cfg.OpenAIModel}
	handlers.UploadDir = cfg.UploadDir

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000, http://localhost:5173, http://127.0.0.1:3000, http://127.0.0.1:5173",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Static("/uploads", cfg.UploadDir)

	routes.Setup(app)

	log.Printf("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
