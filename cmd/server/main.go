package main

import (
	"log"
	"net/http"
	"os"

	"github.com/founder-prep/backend/internal/auth"
	"github.com/founder-prep/backend/internal/content"
	"github.com/founder-prep/backend/internal/database"
	"github.com/founder-prep/backend/internal/gamification"
	"github.com/founder-prep/backend/internal/middleware"
	"github.com/founder-prep/backend/internal/scheduler"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load the embedded content tables
	library, err := content.Load()
	if err != nil {
		log.Fatalf("Failed to load content library: %v", err)
	}
	log.Printf("Content library loaded: %d terms, %d decks, %d quizzes, %d courses, %d game scenarios",
		len(library.Glossary), len(library.Decks), len(library.Quizzes), len(library.Courses), len(library.Scenarios))

	// Initialize services and handlers
	store := gamification.NewStore(db)
	service := gamification.NewService(store)

	authHandler := auth.NewHandler(db)
	progressHandler := gamification.NewHandler(service)
	contentHandler := content.NewHandler(library, service)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Content is public read-only
	api.HandleFunc("/glossary", contentHandler.ListGlossary).Methods("GET")
	api.HandleFunc("/decks", contentHandler.ListDecks).Methods("GET")
	api.HandleFunc("/decks/{id}", contentHandler.GetDeck).Methods("GET")
	api.HandleFunc("/quizzes", contentHandler.ListQuizzes).Methods("GET")
	api.HandleFunc("/quizzes/{id}", contentHandler.GetQuiz).Methods("GET")
	api.HandleFunc("/courses", contentHandler.ListCourses).Methods("GET")
	api.HandleFunc("/courses/{id}", contentHandler.GetCourse).Methods("GET")
	api.HandleFunc("/games", contentHandler.ListGames).Methods("GET")
	api.HandleFunc("/games/{game}/scenarios", contentHandler.GetGameScenarios).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/xp", progressHandler.EarnXP).Methods("POST")
	protected.HandleFunc("/progress/streak", progressHandler.UpdateStreak).Methods("POST")
	protected.HandleFunc("/progress/quiz-attempts", progressHandler.RecordQuizAttempt).Methods("POST")
	protected.HandleFunc("/progress/flashcards/due", progressHandler.DueFlashcards).Methods("GET")
	protected.HandleFunc("/progress/flashcards/{id}/review", progressHandler.ReviewFlashcard).Methods("POST")
	protected.HandleFunc("/progress/terms/{id}/learn", progressHandler.LearnTerm).Methods("POST")
	protected.HandleFunc("/progress/videos/{id}/watched", progressHandler.MarkVideoWatched).Methods("POST")
	protected.HandleFunc("/progress/videos/{id}/timestamp", progressHandler.UpdateVideoTimestamp).Methods("PUT")
	protected.HandleFunc("/progress/modules/{id}/complete", progressHandler.CompleteModule).Methods("POST")
	protected.HandleFunc("/progress/courses/{id}/complete", progressHandler.CompleteCourse).Methods("POST")
	protected.HandleFunc("/progress/courses/{id}/certificate", progressHandler.GetCertificate).Methods("GET")
	protected.HandleFunc("/progress/courses/{id}/completed", progressHandler.IsCourseCompleted).Methods("GET")
	protected.HandleFunc("/progress/achievements/check", progressHandler.CheckAchievements).Methods("POST")
	protected.HandleFunc("/progress/achievements/{id}/dismiss", progressHandler.DismissAchievement).Methods("POST")
	protected.HandleFunc("/progress/level-up/dismiss", progressHandler.DismissLevelUp).Methods("POST")

	protected.HandleFunc("/games/{game}/results", contentHandler.RecordGameResult).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Nightly jobs
	jobs := scheduler.New(service)
	jobs.Start()
	defer jobs.Stop()

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
