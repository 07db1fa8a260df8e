// Command server runs the uPort agent: it resolves disclosure requests,
// issues responses, and exposes the supporting notification and metrics
// endpoints over HTTP.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jamesdigid/uport-mobile/internal/activity"
	"github.com/jamesdigid/uport-mobile/internal/attestations"
	"github.com/jamesdigid/uport-mobile/internal/audit"
	"github.com/jamesdigid/uport-mobile/internal/connections"
	"github.com/jamesdigid/uport-mobile/internal/disclosure"
	"github.com/jamesdigid/uport-mobile/internal/disclosure/adapters"
	disclosurehandler "github.com/jamesdigid/uport-mobile/internal/disclosure/handler"
	"github.com/jamesdigid/uport-mobile/internal/disclosure/metrics"
	"github.com/jamesdigid/uport-mobile/internal/identity"
	"github.com/jamesdigid/uport-mobile/internal/jwttoken"
	"github.com/jamesdigid/uport-mobile/internal/network"
	"github.com/jamesdigid/uport-mobile/internal/notifications"
	notificationshandler "github.com/jamesdigid/uport-mobile/internal/notifications/handler"
	"github.com/jamesdigid/uport-mobile/internal/platform/config"
	"github.com/jamesdigid/uport-mobile/internal/platform/httpserver"
	"github.com/jamesdigid/uport-mobile/internal/platform/logger"
	"github.com/jamesdigid/uport-mobile/internal/platform/middleware"
	platformredis "github.com/jamesdigid/uport-mobile/internal/platform/redis"
	"github.com/jamesdigid/uport-mobile/internal/profile"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Stores degrade to in-memory when no backing service is configured,
	// which is the common single-device deployment.
	var pending disclosure.Store = disclosure.NewInMemoryStore()
	var connectionStore connections.Store = connections.NewInMemoryStore()
	if redisClient != nil {
		pending = disclosure.NewRedisStore(redisClient.Client)
		connectionStore = connections.NewRedisStore(redisClient.Client)
	}

	var activityStore activity.Store = activity.NewInMemoryStore()
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := activity.NewPostgresStore(pool)
		if err := pg.Schema(ctx); err != nil {
			log.Error("postgres schema setup failed", "error", err)
			os.Exit(1)
		}
		activityStore = pg
	}

	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.KafkaBrokers != "" {
		kafka, err := audit.NewKafkaStore(strings.Split(cfg.KafkaBrokers, ","), cfg.AuditTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		auditStore = kafka
	}

	directory := identity.NewInMemoryDirectory()
	keys := jwttoken.NewMemoryKeyStore()
	codec := jwttoken.NewCodec(keys)
	atts := attestations.NewService()

	if err := bootstrapIdentity(directory, keys, cfg); err != nil {
		log.Error("identity bootstrap failed", "error", err)
		os.Exit(1)
	}

	notificationService := notifications.NewService(notifications.WithLogger(log))

	profileStore := profile.NewInMemoryStore()
	profileService := profile.NewService(profileStore, profile.MockFetcher{}, profile.WithLogger(log))
	publisher := profile.NewPublisher(&profile.MockRegistry{}, profile.WithPublisherLogger(log))

	activityService := activity.NewService(activityStore, activity.WithLogger(log))
	auditPublisher := audit.NewPublisher(auditStore)
	sink := adapters.NewSinkAdapter(activityService, connectionStore, auditPublisher, pending)

	disclosureMetrics := metrics.New()
	disclosureService := disclosure.NewService(
		directory, codec, atts, profileService, profileService,
		notificationService, sink, pending, network.NewRegistry(),
		disclosure.WithLogger(log),
		disclosure.WithMetrics(disclosureMetrics),
		disclosure.WithDefaultNetwork(cfg.DefaultNetwork),
		disclosure.WithDIDPublisher(publisher),
	)

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestID)

	disclosurehandler.New(disclosureService, log, disclosureMetrics).Register(router)
	notificationshandler.New(notificationService, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("uport agent listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("uport agent stopped")
}

// bootstrapIdentity seeds the wallet's root identity. Key material lives in
// memory for now; a device keystore slots in behind the same interfaces.
func bootstrapIdentity(directory *identity.InMemoryDirectory, keys *jwttoken.MemoryKeyStore, cfg config.Server) error {
	if _, err := keys.Generate(cfg.IdentityAddress); err != nil {
		return err
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	encKey, err := identity.EncPublicKeyFromSecret(secret)
	if err != nil {
		return err
	}

	directory.AddIdentity(identity.Identity{
		Address:      cfg.IdentityAddress,
		EncPublicKey: encKey,
	})
	return nil
}
