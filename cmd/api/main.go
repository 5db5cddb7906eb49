package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusgate.org/internal/auth"
	"campusgate.org/internal/catalog"
	"campusgate.org/internal/httpapi"
	"campusgate.org/internal/obs"
	"campusgate.org/internal/store/pg"
	"campusgate.org/internal/stream"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	secret := os.Getenv("CAMPUSGATE_AUTH_SECRET")
	if secret == "" {
		log.Fatal("CAMPUSGATE_AUTH_SECRET is required")
	}

	codecOpts := []auth.CodecOption{}
	if raw := os.Getenv("CAMPUSGATE_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("parse CAMPUSGATE_TOKEN_TTL: %v", err)
		}
		codecOpts = append(codecOpts, auth.WithTTL(ttl))
	}
	codec, err := auth.NewCodec(secret, codecOpts...)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	// Postgres when a DSN is set, in-memory stores otherwise so the API
	// can run without infrastructure.
	var (
		users    auth.UserStore
		cat      catalog.Store
		pgStore  *pg.Store
		readyDep httpapi.ReadyProbe
	)
	if dsn := os.Getenv("CAMPUSGATE_PG_DSN"); dsn != "" {
		pgStore, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		users = pgStore.Users()
		cat = pgStore.Catalog()
		readyDep = httpapi.ReadyProbe{DB: pgStore.DB()}
	} else {
		log.Println("CAMPUSGATE_PG_DSN not set, using in-memory stores")
		users = auth.NewMemoryUserStore()
		cat = catalog.NewInMemory()
	}

	accounts, err := auth.NewService(users, codec)
	if err != nil {
		log.Fatalf("account service: %v", err)
	}

	if err := bootstrapAdmin(context.Background(), users); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	api := httpapi.New(readyDep, version, accounts, codec, cat, stream.New())

	addr := os.Getenv("CAMPUSGATE_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting campusgate-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}

// bootstrapAdmin creates the first administrator from the environment.
// Registration never grants the admin role, so without this hook a fresh
// deployment has nobody who can approve accounts.
func bootstrapAdmin(ctx context.Context, users auth.UserStore) error {
	email := os.Getenv("CAMPUSGATE_ADMIN_EMAIL")
	password := os.Getenv("CAMPUSGATE_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = users.Insert(ctx, &auth.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		Approved:     true,
	})
	if err != nil {
		return err
	}
	log.Printf("bootstrapped admin account %s", email)
	return nil
}
