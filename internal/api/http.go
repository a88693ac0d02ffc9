package api

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clopse/hotelfm/internal/api/swagger"
	"github.com/clopse/hotelfm/internal/auth"
	"github.com/clopse/hotelfm/internal/bills"
	"github.com/clopse/hotelfm/internal/config"
	"github.com/clopse/hotelfm/internal/migrate"
	"github.com/clopse/hotelfm/internal/notification"
	"github.com/clopse/hotelfm/internal/storage"
	"github.com/clopse/hotelfm/internal/ui"
)

// NewMux constructs the HTTP mux, wiring the bill service, storage, auth,
// metrics and health endpoints.
func NewMux() *http.ServeMux {
	cfg := config.FromEnv()
	ctx := context.Background()

	// Optional auto-migration: run `goose up` on startup when enabled.
	if cfg.AutoMigrate {
		if err := migrate.Up(ctx, cfg.DBDriver, cfg.DBDSN); err != nil {
			log.Printf("auto-migration failed: %v", err)
		}
	}

	// When using the in-memory storage, preload the hotel descriptors so
	// handlers can list hotels without the descriptor table being empty.
	var st storage.Storage
	var err error
	if cfg.DBDriver == "memory" {
		var hList []storage.Hotel
		for _, h := range bills.Hotels() {
			hList = append(hList, storage.Hotel{
				Key:        h.Key,
				Name:       h.Name,
				UpstreamID: h.UpstreamID,
				City:       h.City,
				Notes:      h.Notes,
			})
		}
		st = storage.NewMemoryWithHotels(hList)
	} else {
		st, err = storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	}

	var svc *bills.Service
	if err != nil {
		log.Printf("storage.Open failed (driver=%s dsn=%s): %v; falling back to upstream-only mode", cfg.DBDriver, cfg.DBDSN, err)
		st = nil
		svc = bills.NewService(bills.Config{APIBase: cfg.APIBase})
	} else {
		log.Printf("bill service using storage backend driver=%s", cfg.DBDriver)
		svc = bills.NewServiceWithStorage(bills.Config{APIBase: cfg.APIBase}, st)
	}

	var authSvc *auth.Service
	if st != nil {
		authSvc, err = auth.NewService(st)
		if err != nil {
			log.Printf("auth service init failed: %v; running without auth", err)
			authSvc = nil
		}
	}

	mux := http.NewServeMux()

	// Metrics endpoint.
	mux.Handle("/metrics", promhttp.Handler())

	// Health / readiness / liveness.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if err := st.Ping(r.Context()); err != nil {
			log.Printf("readyz: db ping failed: %v", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})

	registerBillRoutes(mux, svc, authSvc)
	if st != nil {
		registerEquipmentRoutes(mux, st, authSvc)
		registerComplianceRoutes(mux, st, authSvc)
	}
	if st != nil && authSvc != nil {
		registerUserRoutes(mux, st, authSvc)
		registerNotificationRoutes(mux, authSvc, notification.NewService(st))
	}

	// API docs.
	mux.Handle("/swagger/", http.StripPrefix("/swagger", swagger.Handler()))

	// Web UI
	mux.Handle("/ui/", http.StripPrefix("/ui/", ui.Handler()))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/ui/", http.StatusFound)
	})

	return mux
}

// authDisabled turns off write-permission checks, for local development only.
func authDisabled() bool {
	v := os.Getenv("HOTELFM_AUTH_DISABLED")
	return v == "1" || v == "true" || v == "yes"
}

// requireWrite checks the request's token against the given object. Reads are
// open; every mutating endpoint calls this first.
func requireWrite(authSvc *auth.Service, w http.ResponseWriter, r *http.Request, obj string) bool {
	if authDisabled() || authSvc == nil {
		return true
	}
	token, ok := r.Context().Value(auth.TokenContextKey).(*storage.Token)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	allowed, err := authSvc.Enforce(token.UserID, obj, "write")
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return false
	}
	if !allowed {
		allowed, err = authSvc.EnforceRole(token.Role, obj, "write")
		if err != nil {
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return false
		}
	}
	if !allowed {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// withAuth attaches the token middleware when auth is available.
func withAuth(authSvc *auth.Service, handler http.HandlerFunc) http.Handler {
	if authSvc == nil {
		return handler
	}
	return authSvc.Middleware(handler)
}
