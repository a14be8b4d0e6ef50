package main

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"welth-backend/internal/ai"
	"welth-backend/internal/analytics"
	"welth-backend/internal/auth"
	"welth-backend/internal/config"
	"welth-backend/internal/db"
	"welth-backend/internal/plans"
	"welth-backend/internal/subscription"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Fatal("❌ Failed to ensure schema:", err)
	}

	log.Println("✅ Connected to PostgreSQL!")

	if cfg.GeminiKey == "" {
		log.Println("[WARN] GOOGLE_GENERATIVE_AI_API_KEY is not set, /api/assessment will fail")
	}

	gemini := ai.New(cfg.GeminiKey, cfg.GeminiModel, cfg.AITimeout)
	store := plans.NewStore(database)
	subs := subscription.NewService(database)
	mw := auth.New(cfg.JWTSecret)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(database, cfg.JWTSecret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(database, cfg.JWTSecret))
	mux.HandleFunc("POST /auth/logout", auth.LogoutHandler())
	mux.HandleFunc("DELETE /auth/account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- ASSESSMENT PIPELINE -----
	mux.HandleFunc("POST /api/assessment", mw.Wrap(plans.AssessmentHandler(database, store, subs, gemini)))

	// ----- PLANS -----
	mux.HandleFunc("GET /api/plans", mw.Wrap(plans.PlansHandler(database, store, subs)))

	// ----- ACCOUNT / USAGE -----
	mux.HandleFunc("GET /api/me", mw.Wrap(subscription.MeHandler(subs, store)))

	// ----- ANALYTICS -----
	mux.HandleFunc("POST /events/app-opened", mw.Wrap(analytics.AppOpenedHandler(database)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Println("🚀 API server is running on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}
