package main

import (
	"log"

	"github.com/motorlot/MotorLot/internal/pkg/database"
	"github.com/motorlot/MotorLot/internal/pkg/env"
)

// Runs the schema migration against the configured database and exits.
func main() {
	env.SetupEnvFile()
	database.SetupDatabase()

	if database.GetDB() == nil {
		log.Fatal("migration failed: no database connection")
	}
	log.Println("migration completed")
}
