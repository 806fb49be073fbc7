package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/openrelief/portal/backend/internal/handlers"
	"github.com/openrelief/portal/backend/internal/router"
	"github.com/openrelief/portal/backend/pkg/config"
	"github.com/openrelief/portal/backend/pkg/firebase"
	"github.com/openrelief/portal/backend/pkg/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase push delivery; the portal runs without it
	var pusher handlers.Pusher
	firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Printf("Push notifications disabled: %v", err)
	} else {
		pusher = firebaseApp
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, pusher)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
