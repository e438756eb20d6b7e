package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/motorlot/MotorLot/app/repository"
	"github.com/motorlot/MotorLot/internal/pkg/cache"
	"github.com/motorlot/MotorLot/internal/pkg/database"
	"github.com/motorlot/MotorLot/internal/pkg/env"
	"github.com/motorlot/MotorLot/internal/pkg/featureflag"
	"github.com/motorlot/MotorLot/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	featureflag.InitializeService(
		repository.GetGlobalRepositories(),
		featureflag.NewRedisBackend(cache.GetClient()),
	)

	app := fiber.New(fiber.Config{
		AppName: "MotorLot",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
