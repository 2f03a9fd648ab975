package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "integration-service/docs" // swagger docs

	"integration-service/internal/api"
	"integration-service/internal/archive"
	"integration-service/internal/schema"
	"integration-service/internal/store"
)

// getEnv reads an environment variable with a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// openArchive builds the optional archive from environment configuration.
// ARCHIVE_DRIVER unset or empty disables archiving entirely.
func openArchive() *archive.Archive {
	driver := getEnv("ARCHIVE_DRIVER", "")
	if driver == "" {
		log.Printf("Archive disabled (ARCHIVE_DRIVER not set)")
		return nil
	}

	arch, err := archive.Open(archive.Config{
		Driver:     driver,
		SQLitePath: getEnv("ARCHIVE_SQLITE_PATH", "integration.db"),
		Host:       getEnv("ARCHIVE_DB_HOST", "localhost"),
		Port:       getEnv("ARCHIVE_DB_PORT", "5432"),
		User:       getEnv("ARCHIVE_DB_USER", "postgres"),
		Password:   getEnv("ARCHIVE_DB_PASSWORD", ""),
		DBName:     getEnv("ARCHIVE_DB_NAME", "integration"),
	})
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	return arch
}

// @title Manufacturing Data Integration Service API
// @version 1.0
// @description Schema mapping and dataset integration for manufacturing production and quality-inspection data.
// @BasePath /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, relying on environment variables")
	}

	port := getEnv("SERVER_PORT", "8080")

	log.Printf("Configuration:")
	log.Printf("  Server Port: %s", port)

	router := gin.Default()

	runStore := store.NewStore()
	mapper := schema.NewMapper(schema.DefaultVocabulary())
	arch := openArchive()

	apiHandler := api.NewAPI(runStore, mapper, arch)
	apiHandler.RegisterRoutes(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	listenAddr := fmt.Sprintf(":%s", port)
	log.Printf("Starting Data Integration Service on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatalf("Failed to start Data Integration Service: %v", err)
	}
}
