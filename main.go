package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"lg/nutrition-go-api/internal/adaptive"
)

func main() {
	// Set properties of the predefined Logger: prefix for grepping deploys,
	// no timestamps (the platform adds its own).
	log.SetPrefix("lg/nutrition-go-api: ")
	log.SetFlags(0)

	// .env is optional — production injects real env vars.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env file loaded: %v", err)
	}

	h := &Handler{
		db:     getDBPool(),
		engine: adaptive.NewEngine(),
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	// CORS wraps the whole engine so preflights never reach gin's 404 handler.
	corsOpts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsOpts.AllowedOrigins = strings.Split(origins, ",")
	}
	handler := cors.New(corsOpts).Handler(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	fmt.Printf("Starting nutrition API on :%s\n", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
