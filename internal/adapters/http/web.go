package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	auditAPI "strafenkasse/internal/adapters/api/auditlog"
	authAPI "strafenkasse/internal/adapters/api/auth"
	finesAPI "strafenkasse/internal/adapters/api/fines"
	fineTypesAPI "strafenkasse/internal/adapters/api/finetypes"
	membersAPI "strafenkasse/internal/adapters/api/members"
	statsAPI "strafenkasse/internal/adapters/api/stats"
	usersAPI "strafenkasse/internal/adapters/api/users"
	"strafenkasse/internal/adapters/http/middleware"
	"strafenkasse/internal/adapters/http/perf"
	"strafenkasse/internal/application/sessions"
)

// Backends holds the ports to the remote fines backend. Every panel reads
// and writes through these; nothing here owns business data.
type Backends struct {
	Auth      authAPI.API
	Members   membersAPI.API
	FineTypes fineTypesAPI.API
	Fines     finesAPI.API
	Users     usersAPI.API
	Stats     statsAPI.API
	Audit     auditAPI.API
}

// loadCSRFKey reads the CSRF secret from STRAFENKASSE_CSRF_KEY (hex-encoded,
// 32 bytes). In production, the key MUST be set. In development, a random key
// is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("STRAFENKASSE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("STRAFENKASSE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("STRAFENKASSE_ENV") == "production" {
		log.Fatal("STRAFENKASSE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (forms break across restarts). Set STRAFENKASSE_CSRF_KEY for production.")
	return key
}

// trustedOrigins returns the origins the CSRF check accepts, from
// STRAFENKASSE_TRUSTED_ORIGINS (comma-separated host:port).
func trustedOrigins() []string {
	if v := os.Getenv("STRAFENKASSE_TRUSTED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return []string{"localhost:8080", "127.0.0.1:8080"}
}

// Global backends instance (set by NewMux)
var backends *Backends

// Global session manager instance (set by NewMux)
var sessionManager *sessions.Manager

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, b *Backends, mgr *sessions.Manager, collector *perf.Collector) http.Handler {
	backends = b
	sessionManager = mgr
	perfCollector = collector
	middleware.SecureCookies = os.Getenv("STRAFENKASSE_ENV") == "production" ||
		os.Getenv("STRAFENKASSE_TLS_DOMAIN") != ""

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, trustedOrigins()),
		middleware.Auth(mgr),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
