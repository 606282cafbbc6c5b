package main

import (
	"log"

	"sinfony/config"
	"sinfony/database"
	authRoutes "sinfony/routers/authRoutes"
	coordinatorRoutes "sinfony/routers/coordinatorRoutes"
	csmRoutes "sinfony/routers/csmRoutes"
	trainingRoutes "sinfony/routers/trainingRoutes"
	userRoutes "sinfony/routers/userRoutes"
	"sinfony/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded images and generated certificates
	app.Static("/uploads", "./"+config.AppConfig.UploadDir)
	app.Static("/certificates", "./"+config.AppConfig.CertOutDir)

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	trainingRoutes.SetupTrainingRoutes(app)
	coordinatorRoutes.SetupCoordinatorRoutes(app)
	csmRoutes.SetupCsmRoutes(app)

	utils.StartReminderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
