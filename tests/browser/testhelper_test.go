package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

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

// testBearer is the token the fake backend issues on every login.
const testBearer = "bearer-browser-test"

// fakeBackend is an in-process stand-in for the remote club backend. It
// accepts any of the seeded credentials and serves a small fixed dataset.
type fakeBackend struct {
	// username -> role
	accounts map[string]string
}

// roleFor returns the role of a seeded account, or "".
func (b *fakeBackend) roleFor(username string) string {
	return b.accounts[username]
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		role := b.roleFor(req.Username)
		if role == "" || req.Password != "geheim123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"token":    testBearer,
			"username": req.Username,
			"role":     role,
		})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testBearer {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("/api/members", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "99", "name": "Neu", "status": "aktiv"})
			return
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "1", "name": "Anna Schmitz", "status": "aktiv"},
			{"id": "7", "name": "Heinz Becker", "status": "aktiv"},
		})
	}))

	mux.HandleFunc("/api/fine-types", authed(func(w http.ResponseWriter, r *http.Request) {
		five := 5.0
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "ft-late", "label": "Zu spät zur Probe", "amount": five},
			{"id": "ft-misc", "label": "Sonstiges", "amount": nil},
		})
	}))

	mux.HandleFunc("/api/fines", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"id": "f-new", "member_id": "7", "fine_type_id": "ft-late",
				"fine_type_label": "Zu spät zur Probe", "amount": 5.0,
				"date": time.Now().Format(time.RFC3339), "fiscal_year": "2025/2026",
			})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "f1", "member_id": "7", "fine_type_id": "ft-late",
				"fine_type_label": "Zu spät zur Probe", "amount": 5.0,
				"date": time.Now().Format(time.RFC3339), "fiscal_year": "2025/2026"},
		})
	}))

	mux.HandleFunc("/api/statistics", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"fiscal_year": "2025/2026", "total_fines": 1, "total_amount": 5.0,
		})
	}))

	mux.HandleFunc("/api/statistics/personal", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"fiscal_year": "2025/2026", "total_fines": 0, "total_amount": 0.0,
		})
	}))

	mux.HandleFunc("/api/fiscal-years", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"fiscal_years": []string{"2025/2026"}})
	}))

	mux.HandleFunc("/api/users", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "u1", "username": "kassenwart", "role": "admin",
				"created_at": time.Now().Format(time.RFC3339)},
		})
	}))

	mux.HandleFunc("/api/audit-logs", authed(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	}))

	return mux
}

// testApp holds the running client app, its fake backend, and Playwright.
type testApp struct {
	BaseURL string
	Backend *httptest.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp boots the fake backend and the client tier against it.
// Browser tests are skipped when Playwright is not installed.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := httptest.NewServer((&fakeBackend{accounts: map[string]string{
		"kassenwart": "admin",
		"spiess":     "spiess",
		"vorstand":   "vorstand",
	}}).handler())
	t.Cleanup(backend.Close)

	tmpDir := t.TempDir()
	dsn := filepath.Join(tmpDir, "test.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	collector := perf.NewCollector(1000)
	client := rest.NewClient(backend.URL)
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

	mgr := sessions.NewManager(sessionStore.NewSQLiteStore(db))
	t.Cleanup(mgr.Stop)

	// Find a free port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	t.Setenv("STRAFENKASSE_TRUSTED_ORIGINS",
		fmt.Sprintf("127.0.0.1:%d,localhost:%d", port, port))

	staticDir := filepath.Join(findProjectRoot(t), "static")
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: web.NewMux(staticDir, backends, mgr, collector),
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()
	t.Cleanup(func() { srv.Close() })

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/login")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("chromium unavailable: %v", err)
	}
	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
	})

	return &testApp{
		BaseURL: baseURL,
		Backend: backend,
		PW:      pw,
		Browser: browser,
	}
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// login signs in with one of the seeded accounts and waits for the
// role's landing page.
func (a *testApp) login(t *testing.T, page playwright.Page, username, landing string) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill(username); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill("geheim123"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+landing, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to %s: %v", landing, err)
	}
}

// findProjectRoot walks up from the working directory to the directory
// containing go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
