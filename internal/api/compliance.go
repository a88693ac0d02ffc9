package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/clopse/hotelfm/internal/auth"
	"github.com/clopse/hotelfm/internal/bills"
	"github.com/clopse/hotelfm/internal/storage"
	"github.com/google/uuid"
)

// registerComplianceRoutes wires the compliance checklist endpoints:
//
//	GET    /api/compliance/{hotel}
//	PUT    /api/compliance/{hotel}            upsert a task
//	POST   /api/compliance/{hotel}/{id}/done  toggle completion
//	DELETE /api/compliance/{hotel}/{id}
func registerComplianceRoutes(mux *http.ServeMux, st storage.Storage, authSvc *auth.Service) {
	mux.Handle("/api/compliance/", withAuth(authSvc, func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/compliance/")
		parts := strings.Split(path, "/")
		hotelKey := strings.ToLower(parts[0])
		if _, ok := bills.GetHotel(hotelKey); !ok {
			http.NotFound(w, r)
			return
		}

		// POST /api/compliance/{hotel}/{id}/done
		if len(parts) == 3 && parts[2] == "done" {
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			if !requireWrite(authSvc, w, r, "compliance") {
				return
			}
			task, err := st.GetComplianceTask(r.Context(), parts[1])
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if task == nil || task.HotelKey != hotelKey {
				http.NotFound(w, r)
				return
			}
			task.Done = !task.Done
			if task.Done {
				now := time.Now()
				task.CompletedAt = &now
			} else {
				task.CompletedAt = nil
			}
			task.UpdatedAt = time.Now()
			if err := st.UpsertComplianceTask(r.Context(), *task); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(task)
			return
		}

		switch r.Method {
		case http.MethodGet:
			tasks, err := st.ListComplianceTasks(r.Context(), hotelKey)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if tasks == nil {
				tasks = []storage.ComplianceTask{}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(tasks)

		case http.MethodPut, http.MethodPost:
			if !requireWrite(authSvc, w, r, "compliance") {
				return
			}
			var t storage.ComplianceTask
			if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if t.Title == "" {
				http.Error(w, "title is required", http.StatusBadRequest)
				return
			}
			if t.ID == "" {
				t.ID = uuid.New().String()
				t.CreatedAt = time.Now()
			}
			t.HotelKey = hotelKey
			t.UpdatedAt = time.Now()
			if err := st.UpsertComplianceTask(r.Context(), t); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(t)

		case http.MethodDelete:
			if !requireWrite(authSvc, w, r, "compliance") {
				return
			}
			if len(parts) != 2 || parts[1] == "" {
				http.Error(w, "id required", http.StatusBadRequest)
				return
			}
			if err := st.DeleteComplianceTask(r.Context(), parts[1]); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
}
