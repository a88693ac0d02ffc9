package api

import (
	"encoding/json"
	"net/http"

	"github.com/clopse/hotelfm/internal/auth"
	"github.com/clopse/hotelfm/internal/notification"
	"github.com/clopse/hotelfm/internal/storage"
)

// registerNotificationRoutes wires the email settings endpoints used by the
// refresh worker's digest emails.
func registerNotificationRoutes(mux *http.ServeMux, authSvc *auth.Service, notifSvc *notification.Service) {
	mux.Handle("/api/settings/email", authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg, err := notifSvc.GetConfig(r.Context())
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if cfg == nil {
				cfg = &storage.EmailConfig{}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cfg)

		case http.MethodPut:
			if !requireWrite(authSvc, w, r, "settings") {
				return
			}
			var req storage.EmailConfig
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if err := notifSvc.SaveConfig(r.Context(), req); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/api/settings/email/test", authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !requireWrite(authSvc, w, r, "settings") {
			return
		}

		var req struct {
			Config storage.EmailConfig `json:"config"`
			To     string              `json:"to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if err := notifSvc.TestConfig(r.Context(), req.Config, req.To); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusOK)
	})))
}
