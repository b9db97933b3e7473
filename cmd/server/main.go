package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

	"Echo/internal/api/middleware"
	"Echo/internal/api/routes"
	"Echo/internal/auth"
	"Echo/internal/config"
	"Echo/internal/core/blobs"
	"Echo/internal/core/likes"
	"Echo/internal/core/posts"
	"Echo/internal/core/speech"
	"Echo/internal/core/users"
	"Echo/internal/db/migrations"
	postgresRepo "Echo/internal/db/postgres"
	"Echo/internal/objectstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	natsConn, err := nats.Connect(cfg.Storage.NATSURL, nats.Name("echo-server"))
	if err != nil {
		log.Fatal("Failed to connect to NATS:", err)
	}
	defer natsConn.Close()

	js, err := natsConn.JetStream()
	if err != nil {
		log.Fatal("Failed to get JetStream context:", err)
	}

	store, err := objectstore.New(js, cfg.Storage.Bucket)
	if err != nil {
		log.Fatal("Failed to open object store:", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Fatal("Failed to create token manager:", err)
	}

	// Initialize repositories and services
	userRepo := postgresRepo.NewUserRepository(db)
	postRepo := postgresRepo.NewPostRepository(db)
	likeRepo := postgresRepo.NewLikeRepository(db)
	voiceProfiles := speech.ChainVoiceProfiles(
		postgresRepo.NewVoiceProfileRepository(db),
		staticVoiceProfiles(cfg.Speech.VoiceProfiles),
	)

	userService := users.NewUserService(userRepo, tokens, logger)
	likeService := likes.NewService(likeRepo, logger)
	blobService := blobs.NewBlobService(store, cfg.Server.PublicBaseURL,
		time.Duration(cfg.Storage.UploadTimeoutS)*time.Second, logger)

	transcriber := speech.NewWhisperClient(speech.WhisperConfig{
		Endpoint: cfg.Speech.TranscriptionURL,
		APIKey:   cfg.Speech.TranscriptionAPIKey,
		Model:    cfg.Speech.TranscriptionModel,
		Timeout:  time.Duration(cfg.Speech.TranscriptionTimeoutS) * time.Second,
	}, logger)
	synthesizer := speech.NewElevenLabsClient(speech.ElevenLabsConfig{
		BaseURL:        cfg.Speech.SynthesisURL,
		APIKey:         cfg.Speech.SynthesisAPIKey,
		Model:          cfg.Speech.SynthesisModel,
		DefaultVoiceID: cfg.Speech.DefaultVoiceID,
		Timeout:        time.Duration(cfg.Speech.SynthesisTimeoutS) * time.Second,
	}, voiceProfiles, logger)

	postService := posts.NewPostService(postRepo, transcriber, synthesizer, blobService, likeService, nil, logger)

	authMiddleware := middleware.NewBearerAuthMiddleware(tokens, userService)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		MaxAge: 300,
	}))

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.RateWindow())
	defer rateLimiter.Stop()
	r.Use(rateLimiter.Middleware)

	routes.RegisterUserRoutes(r, userService, authMiddleware)
	routes.RegisterPostRoutes(r, postService, likeService, authMiddleware)
	routes.RegisterAudioRoutes(r, blobService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	fmt.Printf("Echo server starting on port %s\n", cfg.Server.Port)
	fmt.Printf("Public audio base: %s\n", cfg.Server.PublicBaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// newLogger builds the process logger from config
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// staticVoiceProfiles converts configured profiles into a username-keyed store
func staticVoiceProfiles(profiles []config.VoiceProfile) speech.StaticVoiceProfiles {
	out := make(speech.StaticVoiceProfiles, len(profiles))
	for _, p := range profiles {
		out[strings.ToLower(p.Username)] = speech.VoiceProfile{
			VoiceID:        p.VoiceID,
			Stability:      p.Stability,
			Expressiveness: p.Expressiveness,
		}
	}
	return out
}
