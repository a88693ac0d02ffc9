package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clopse/hotelfm/internal/auth"
	"github.com/clopse/hotelfm/internal/storage"
)

// registerUserRoutes wires authentication and user management:
//
//	POST   /api/auth/login     exchange credentials for an API token
//	POST   /api/auth/register  create a user (first user becomes admin)
//	GET    /api/users          list users (admin)
//	PUT    /api/users/{id}     change a user's role, email or password (admin)
//	DELETE /api/users/{id}     remove a user and revoke their tokens (admin)
//	GET    /api/tokens         list the caller's tokens
//	POST   /api/tokens         mint a token for the caller
//	DELETE /api/tokens/{id}
func registerUserRoutes(mux *http.ServeMux, st storage.Storage, authSvc *auth.Service) {
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Username  string `json:"username"`
			Password  string `json:"password"`
			ExpiresIn string `json:"expires_in,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		u, err := authSvc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		expiresAt, err := auth.ParseExpirationDuration(req.ExpiresIn)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		token, raw, err := authSvc.CreateToken(r.Context(), u.ID, "login", u.Role, expiresAt)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"token":      raw,
			"token_id":   token.ID,
			"role":       token.Role,
			"expires_at": token.ExpiresAt,
		})
	})

	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password are required", http.StatusBadRequest)
			return
		}

		existing, err := st.ListUsers(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		role := req.Role
		if len(existing) == 0 {
			// Bootstrap: the first registered user is always admin.
			role = "admin"
		} else {
			// Subsequent registrations require an admin token.
			authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !requireWrite(authSvc, w, r, "users") {
					return
				}
				if role == "" {
					role = "viewer"
				}
				createUser(w, r, authSvc, req.Username, req.Password, role)
			})).ServeHTTP(w, r)
			return
		}
		createUser(w, r, authSvc, req.Username, req.Password, role)
	})

	mux.Handle("/api/users", authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !requireWrite(authSvc, w, r, "users") {
			return
		}
		users, err := st.ListUsers(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	})))

	mux.Handle("/api/users/", authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireWrite(authSvc, w, r, "users") {
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/users/")
		if id == "" {
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodPut:
			var req struct {
				Role     string `json:"role,omitempty"`
				Email    string `json:"email,omitempty"`
				Password string `json:"password,omitempty"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			u, err := authSvc.UpdateUser(r.Context(), id, req.Role, req.Email, req.Password)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(u)

		case http.MethodDelete:
			if err := authSvc.DeleteUser(r.Context(), id); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/api/tokens", authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := r.Context().Value(auth.TokenContextKey).(*storage.Token)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodGet:
			tokens, err := st.ListTokens(r.Context(), token.UserID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(tokens)

		case http.MethodPost:
			var req struct {
				Name      string `json:"name"`
				ExpiresIn string `json:"expires_in,omitempty"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			expiresAt, err := auth.ParseExpirationDuration(req.ExpiresIn)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			t, raw, err := authSvc.CreateToken(r.Context(), token.UserID, req.Name, token.Role, expiresAt)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"token":      raw,
				"token_id":   t.ID,
				"expires_at": t.ExpiresAt,
			})

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/api/tokens/", authSvc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		token, ok := r.Context().Value(auth.TokenContextKey).(*storage.Token)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/tokens/")
		existing, err := st.GetToken(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if existing == nil || existing.UserID != token.UserID {
			http.NotFound(w, r)
			return
		}
		if err := st.DeleteToken(r.Context(), id); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})))
}

func createUser(w http.ResponseWriter, r *http.Request, authSvc *auth.Service, username, password, role string) {
	u, err := authSvc.Register(r.Context(), username, password, role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}
