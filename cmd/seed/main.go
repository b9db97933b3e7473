// Command seed populates a development database with demo accounts, voice notes and likes.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"

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
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum time to spend seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsConn, err := nats.Connect(cfg.Storage.NATSURL, nats.Name("echo-seed"))
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	js, err := natsConn.JetStream()
	if err != nil {
		log.Fatalf("Failed to get JetStream context: %v", err)
	}
	store, err := objectstore.New(js, cfg.Storage.Bucket)
	if err != nil {
		log.Fatalf("Failed to open object store: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	userService := users.NewUserService(postgresRepo.NewUserRepository(db), tokens, logger)
	likeService := likes.NewService(postgresRepo.NewLikeRepository(db), logger)
	blobService := blobs.NewBlobService(store, cfg.Server.PublicBaseURL,
		time.Duration(cfg.Storage.UploadTimeoutS)*time.Second, logger)
	synthesizer := speech.NewElevenLabsClient(speech.ElevenLabsConfig{
		BaseURL:        cfg.Speech.SynthesisURL,
		APIKey:         cfg.Speech.SynthesisAPIKey,
		Model:          cfg.Speech.SynthesisModel,
		DefaultVoiceID: cfg.Speech.DefaultVoiceID,
		Timeout:        time.Duration(cfg.Speech.SynthesisTimeoutS) * time.Second,
	}, postgresRepo.NewVoiceProfileRepository(db), logger)

	// Seeding never transcribes, so no transcriber is wired
	postService := posts.NewPostService(postgresRepo.NewPostRepository(db), nil, synthesizer,
		blobService, likeService, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Printf("Seeding demo data...")
	result, err := NewSeeder(userService, postService, likeService, logger).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("✓ Created %d users, %d posts, %d likes", result.Users, result.Posts, result.Likes)
	log.Printf("Demo accounts use password %q:", seedPassword)
	for _, u := range seedUsers {
		log.Printf("  %s", u.Username)
	}
}
