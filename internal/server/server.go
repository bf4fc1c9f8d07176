package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devlink-social/apiserver/config"
	"github.com/devlink-social/apiserver/internal/db"
	"github.com/devlink-social/apiserver/internal/github"
	"github.com/devlink-social/apiserver/internal/handlers"
	"github.com/devlink-social/apiserver/internal/mq"
	"github.com/devlink-social/apiserver/internal/services"
	"github.com/devlink-social/apiserver/internal/storage"
	"github.com/devlink-social/apiserver/internal/store"
	"github.com/devlink-social/apiserver/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server, router, and shared resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mqBackend  mq.Backend
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storageBackend, err := storage.NewBackend(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if storageBackend != nil {
		if err := storageBackend.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			return nil, err
		}
	}

	mqBackend, err := mq.NewBackend(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)

	events := services.NewActivityPublisher(mqBackend)
	userService := services.NewUserService(userRepo, profileRepo, postRepo, events)
	profileService := services.NewProfileService(profileRepo)
	postService := services.NewPostService(postRepo, userRepo, events)

	codec := token.NewCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLSeconds)*time.Second)
	authMiddleware := handlers.RequireAuth(codec)

	authHandler := handlers.NewAuthHandler(userService, codec)
	avatarHandler := handlers.NewAvatarHandler(userService, storageBackend)
	profileHandler := handlers.NewProfileHandler(profileService, userService, github.NewClient(cfg.GitHub))
	postHandler := handlers.NewPostHandler(postService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api/users", func(r chi.Router) {
		handlers.UsersRouter(r, authHandler, avatarHandler, authMiddleware)
	})
	router.Route("/api/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler, authMiddleware)
	})
	router.Route("/api/profile", func(r chi.Router) {
		handlers.ProfileRouter(r, profileHandler, authMiddleware)
	})
	router.Route("/api/posts", func(r chi.Router) {
		handlers.PostRouter(r, postHandler, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mqBackend:  mqBackend,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.mqBackend != nil {
		_ = s.mqBackend.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
