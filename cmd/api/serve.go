package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/petermazzocco/go-activities/internal/auth"
	"github.com/petermazzocco/go-activities/internal/config"
	"github.com/petermazzocco/go-activities/internal/database"
	"github.com/petermazzocco/go-activities/internal/handlers"
	"github.com/petermazzocco/go-activities/internal/imaging"
	"github.com/petermazzocco/go-activities/internal/pokeapi"
	"github.com/petermazzocco/go-activities/internal/realtime"
	"github.com/petermazzocco/go-activities/internal/resource"
	"github.com/petermazzocco/go-activities/internal/storage"
	"github.com/petermazzocco/go-activities/internal/suggest"
	"github.com/petermazzocco/go-activities/internal/summary"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dsnFlag != "" {
		cfg.Database.DSN = dsnFlag
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}

	// Database connection
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Session store, shared with gothic for OAuth
	store := auth.NewStore(cfg.Session.Secret, cfg.Session.Secure, cfg.Session.MaxAge)
	providers := auth.UseProviders(store, cfg.Google.Key, cfg.Google.Secret, cfg.Google.CallbackURL)

	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	uploads := resource.NewUploader(
		storage.NewS3Store(client, cfg.Storage.PublicURL),
		imaging.NewInspector(),
		cfg.Storage.Bucket,
	)

	hub := realtime.NewHub(cfg.FrontendURL)
	h := &handlers.Handler{
		Todos:     resource.NewTodos(db, hub),
		Photos:    resource.NewPhotos(db, uploads, hub),
		Food:      resource.NewFood(db, uploads, hub),
		Pokemon:   resource.NewPokemon(db, hub),
		Notes:     resource.NewNotes(db, hub),
		Accounts:  resource.NewAccounts(db, uploads, hub),
		Identity:  auth.NewIdentity(db),
		Sessions:  auth.NewSessions(store),
		Providers: providers,
		Hub:       hub,
		Catalog:   pokeapi.NewClient("", nil),
		Summary:   summary.New(sqlDB, cfg.Database.Driver),
	}

	chain, err := suggest.NewGemini(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Models)
	if err != nil {
		log.Println("AI suggestions disabled:", err)
	} else if chain != nil {
		h.Suggester = chain
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.NewRouter(h, handlers.RouterConfig{FrontendURL: cfg.FrontendURL, RateLimit: cfg.RateLimit}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("Starting API server on", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newS3Client talks to Cloudflare R2 through a TLS 1.2+ client.
func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			},
		},
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithHTTPClient(&http.Client{Transport: tr}),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKeyID, cfg.Storage.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}
