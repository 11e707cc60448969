package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/learnlog/learnlog-backend/internal/config"
	"github.com/learnlog/learnlog-backend/internal/database"
	"github.com/learnlog/learnlog-backend/internal/handlers"
	"github.com/learnlog/learnlog-backend/internal/middleware"
	"github.com/learnlog/learnlog-backend/internal/routes"
	"github.com/learnlog/learnlog-backend/internal/services"
	"github.com/learnlog/learnlog-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Wire stores, sessions and handlers
	users := store.NewUserStore(db)
	entries := store.NewEntryStore(db)
	sessions := services.NewSessionService(redisClient, users)
	authHandler := handlers.NewAuthHandler(users, sessions)
	entryHandler := handlers.NewEntryHandler(sessions, entries, cfg.StreamLimit)

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimit(redisClient))
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, authHandler, entryHandler)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/signin")
	log.Println("  POST   /api/auth/signout")
	log.Println("  GET    /api/auth/me")
	log.Println("  POST   /api/entries")
	log.Println("  GET    /api/entries")
	log.Println("  GET    /api/entries/{entryID}")
	log.Println("  PUT    /api/entries/{entryID}")
	log.Println("  DELETE /api/entries/{entryID}")

	log.Printf("🚀 Learnlog backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
