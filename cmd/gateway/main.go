package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/lingopath/lingopath-lms/internal/api/http"
	auth "github.com/lingopath/lingopath-lms/internal/auth/middleware"
	"github.com/lingopath/lingopath-lms/internal/config"
	"github.com/lingopath/lingopath-lms/internal/db"
	"github.com/lingopath/lingopath-lms/internal/eventlog"
	"github.com/lingopath/lingopath-lms/internal/exercise"
	"github.com/lingopath/lingopath-lms/internal/gamification"
	"github.com/lingopath/lingopath-lms/internal/placement"
	"github.com/lingopath/lingopath-lms/internal/rbac"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins

	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	events := eventlog.NewRepo(dbh, cfg.SiteID)

	placementStore := placement.NewSQLStore(dbh)
	placementSvc := placement.NewService(placementStore, events)

	gamStore := gamification.NewSQLStore(dbh)
	if err := gamStore.Seed(ctx); err != nil {
		log.Fatalf("achievement seed failed: %v", err)
	}
	progression := gamification.NewService(gamStore)

	exerciseStore := exercise.NewSQLStore(dbh)
	exerciseSvc := exercise.NewService(exerciseStore, progression, events)

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, auth.LoginConfig{
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
	}))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeOffline))

		// Placement: learner flow
		pr.With(rbac.Require("placement:view")).
			Get("/placement/active", api.GetActivePlacementHandler(placementStore))
		pr.With(rbac.Require("placement:view")).
			Get("/placement/eligibility", api.PlacementEligibilityHandler(placementStore))
		pr.With(rbac.Require("placement:attempt")).
			Post("/placement/submit", api.SubmitPlacementHandler(placementSvc))

		// Placement: authoring and retake administration
		pr.With(rbac.Require("placement:manage")).
			Post("/placement/tests", api.CreatePlacementTestHandler(placementStore))
		pr.With(rbac.Require("placement:manage")).
			Get("/placement/tests/{testID}", api.GetPlacementTestHandler(placementStore))
		pr.With(rbac.Require("placement:manage")).
			Post("/placement/tests/{testID}/activate", api.ActivatePlacementTestHandler(placementStore))
		pr.With(rbac.Require("placement:unlock")).
			Post("/placement/results/{resultID}/allow-retake", api.AllowRetakeHandler(placementSvc))
		pr.With(rbac.RequireOwnerOr("result:view-all", ownsUserParam)).
			Get("/placement/results/{userID}", api.PlacementResultsHandler(placementStore))

		// Exercises
		pr.With(rbac.Require("exercise:create")).
			Post("/exercises", api.CreateExerciseHandler(exerciseStore))
		pr.With(rbac.Require("exercise:view")).
			Get("/exercises/{exerciseID}", api.GetExerciseHandler(exerciseStore))
		pr.With(rbac.Require("exercise:submit")).
			Post("/exercises/{exerciseID}/submit", api.SubmitExerciseHandler(exerciseSvc))
		pr.With(rbac.RequireOwnerOr("result:view-all", ownsUserParam)).
			Get("/exercises/results/{userID}", api.ExerciseResultsHandler(exerciseStore))

		// Progression
		pr.With(rbac.RequireOwnerOr("result:view-all", ownsUserParam)).
			Get("/progress/{userID}", api.GetProgressHandler(gamStore))
		pr.With(rbac.Require("progress:view")).
			Get("/achievements", api.ListAchievementsHandler(gamStore))

		// Users (instructor/admin)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// ownsUserParam reports whether the {userID} path segment is the caller.
func ownsUserParam(r *http.Request) bool {
	return chi.URLParam(r, "userID") == auth.SubjectFromContext(r.Context())
}
