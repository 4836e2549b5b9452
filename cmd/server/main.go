package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/acme/autocert"
	_ "modernc.org/sqlite"

	auditAPI "strafenkasse/internal/adapters/api/auditlog"
	authAPI "strafenkasse/internal/adapters/api/auth"
	finesAPI "strafenkasse/internal/adapters/api/fines"
	fineTypesAPI "strafenkasse/internal/adapters/api/finetypes"
	membersAPI "strafenkasse/internal/adapters/api/members"
	"strafenkasse/internal/adapters/api/rest"
	statsAPI "strafenkasse/internal/adapters/api/stats"
	usersAPI "strafenkasse/internal/adapters/api/users"
	web "strafenkasse/internal/adapters/http"
	"strafenkasse/internal/adapters/http/perf"
	"strafenkasse/internal/adapters/storage"
	sessionStore "strafenkasse/internal/adapters/storage/session"
	"strafenkasse/internal/application/sessions"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("STRAFENKASSE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// The local database only holds session state; all club data lives on
	// the remote backend.
	dbPath := envOrDefault("STRAFENKASSE_DB", "strafenkasse.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector.
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Backend client. Every operation except login carries a bearer token.
	backendURL := envOrDefault("STRAFENKASSE_BACKEND_URL", "http://localhost:9000")
	client := rest.NewClient(backendURL)
	client.SetCollector(collector)

	backends := &web.Backends{
		Auth:      authAPI.NewRESTAPI(client),
		Members:   membersAPI.NewRESTAPI(client),
		FineTypes: fineTypesAPI.NewRESTAPI(client),
		Fines:     finesAPI.NewRESTAPI(client),
		Users:     usersAPI.NewRESTAPI(client),
		Stats:     statsAPI.NewRESTAPI(client),
		Audit:     auditAPI.NewRESTAPI(client),
	}

	// Sessions survive restarts. Rehydrate re-arms the watchdog timers for
	// every persisted session and purges the ones that expired while the
	// process was down, before any request can present a stale token.
	mgr := sessions.NewManager(sessionStore.NewSQLiteStore(timedDB))
	if err := mgr.Rehydrate(context.Background()); err != nil {
		log.Fatalf("failed to rehydrate sessions: %v", err)
	}
	defer mgr.Stop()

	mux := web.NewMux(envOrDefault("STRAFENKASSE_STATIC_DIR", "static"), backends, mgr, collector)

	addr := envOrDefault("STRAFENKASSE_ADDR", ":8080")
	env := envOrDefault("STRAFENKASSE_ENV", "development")

	// With a TLS domain configured, serve HTTPS via Let's Encrypt. The
	// camera-based scanner needs a secure context on anything that is not
	// localhost, so production deployments should always set this.
	if domain := os.Getenv("STRAFENKASSE_TLS_DOMAIN"); domain != "" {
		certManager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(domain),
			Cache:      autocert.DirCache(envOrDefault("STRAFENKASSE_TLS_CACHE", "certs")),
		}
		server := &http.Server{
			Addr:              ":https",
			Handler:           mux,
			TLSConfig:         certManager.TLSConfig(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			// Port 80 answers ACME challenges and redirects everything else.
			if err := http.ListenAndServe(":http", certManager.HTTPHandler(nil)); err != nil {
				log.Fatalf("HTTP challenge server failed: %v", err)
			}
		}()
		log.Printf("Strafenkasse %s starting on :https for %s (env=%s, backend=%s)", version, domain, env, backendURL)
		if err := server.ListenAndServeTLS("", ""); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	log.Printf("Strafenkasse %s starting on %s (env=%s, backend=%s)", version, addr, env, backendURL)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
