package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myrest.org/internal/auth"
	"myrest.org/internal/config"
	"myrest.org/internal/grpcapi"
	"myrest.org/internal/httpapi"
	"myrest.org/internal/obs"
	"myrest.org/internal/resource"
	"myrest.org/internal/store/memory"
	"myrest.org/internal/store/pg"
)

// Overridden at build time via -ldflags.
var (
	version = "0.3.0"
	commit  = "none"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	var (
		store    resource.Store
		identity auth.IdentityStore
		probe    httpapi.ReadyProbe
		closeDB  func()
	)
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgStore, err := pg.Open(ctx, cfg.Database.DSN)
		cancel()
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db := pgStore.DB()
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		store = pgStore
		identity = pgStore
		probe = httpapi.ReadyProbe{DB: db}
		closeDB = func() { _ = pgStore.Close() }
	} else {
		mem := memory.NewStore()
		bootstrapRoot(mem)
		store = mem
		identity = mem
		closeDB = func() {}
		log.Printf("no database.dsn configured, using the in-memory store")
	}

	resetSecret := cfg.Auth.ResetSecret
	if resetSecret == "" {
		resetSecret, err = auth.NewTokenValue()
		if err != nil {
			log.Fatalf("generate reset secret: %v", err)
		}
		log.Printf("auth.reset_secret not configured, reset tokens will not survive a restart")
	}

	sessions := auth.NewService(identity,
		auth.WithSessionTTL(cfg.Auth.SessionTTL),
		auth.WithRefreshTTL(cfg.Auth.RefreshTTL),
		auth.WithResetSecret(resetSecret, cfg.Auth.ResetTTL),
	)

	api := httpapi.New(httpapi.Options{
		Store:           store,
		Authorizer:      auth.NewAuthorizer(identity),
		Sessions:        sessions,
		ReadyProbe:      probe,
		Version:         version,
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		RateBurst:       cfg.RateLimit.Burst,
		RateRPS:         cfg.RateLimit.RPS,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcSrv := grpcapi.NewServer()

	log.Printf("Starting myrest-api %s on %s (grpc %s)", version, cfg.Server.Addr, cfg.Server.GRPCAddr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	go func() {
		if err := grpcSrv.Serve(cfg.Server.GRPCAddr); err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
	}()
	grpcSrv.SetReady(true)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	grpcSrv.SetReady(false)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	grpcSrv.GracefulStop()
	closeDB()
	log.Println("Stopped")
}

// bootstrapRoot seeds the in-memory store with a root account so a fresh
// process is usable. The password comes from MYREST_BOOTSTRAP_PASSWORD or
// is generated and printed once.
func bootstrapRoot(mem *memory.Store) {
	password := os.Getenv("MYREST_BOOTSTRAP_PASSWORD")
	if password == "" {
		generated, err := auth.NewTokenValue()
		if err != nil {
			log.Fatalf("generate bootstrap password: %v", err)
		}
		password = generated
		log.Printf("bootstrap root password: %s", password)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash bootstrap password: %v", err)
	}
	mem.AddUser(auth.User{
		Username:     "root",
		Fullname:     "Root",
		Email:        "root@localhost",
		Role:         auth.RoleRoot,
		PasswordHash: hash,
	})
}
