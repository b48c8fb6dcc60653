package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	api "github.com/examlane/examlane/internal/api/http"
	"github.com/examlane/examlane/internal/auth"
	"github.com/examlane/examlane/internal/config"
	"github.com/examlane/examlane/internal/db"
	"github.com/examlane/examlane/internal/exam"
	"github.com/examlane/examlane/internal/keepalive"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.WithError(err).Fatal("db open failed")
	}
	store := exam.NewSQLStore(dbh, cfg.DBDriver)

	authSvc := auth.NewAuthService(cfg.JWTSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	// uptime monitors hit this
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Exam backend is ONLINE"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/auth/signup", auth.SignupHandler(dbh, authSvc))
		ar.Post("/auth/login", auth.LoginHandler(dbh, authSvc))

		// Student-facing: no accounts, the exam id is the shareable link.
		ar.Get("/exam/{examID}", api.GetExamHandler(store))
		ar.Post("/submit/{examID}", api.SubmitExamHandler(store))
		ar.Post("/check/{examID}", api.CheckStatusHandler(store))

		// Teacher-facing; bearer token only when REQUIRE_AUTH is set.
		ar.Group(func(tr chi.Router) {
			if cfg.RequireAuth {
				tr.Use(auth.JWTMiddleware(authSvc))
			}
			tr.Post("/create-exam", api.CreateExamHandler(store))
			tr.Get("/submissions/{examID}", api.ListSubmissionsHandler(store))
			tr.Post("/grade/{submissionID}", api.SaveGradeHandler(store))
			tr.Get("/exams", api.ListExamsHandler(store))
		})

		ar.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(authSvc))
			pr.Get("/teachers/me", auth.MeHandler(dbh))
			pr.Put("/teachers/me", auth.UpdateMeHandler(dbh))
		})
	})

	if cfg.SelfPingURL != "" {
		c := keepalive.New(cfg.SelfPingURL, log).Start()
		defer c.Stop()
	}

	log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "db": cfg.DBDriver}).Info("listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
