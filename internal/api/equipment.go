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

// registerEquipmentRoutes wires the equipment inventory endpoints:
//
//	GET    /api/equipment/{hotel}
//	PUT    /api/equipment/{hotel}        upsert one line
//	DELETE /api/equipment/{hotel}/{id}
func registerEquipmentRoutes(mux *http.ServeMux, st storage.Storage, authSvc *auth.Service) {
	mux.Handle("/api/equipment/", withAuth(authSvc, func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/equipment/")
		parts := strings.Split(path, "/")
		hotelKey := strings.ToLower(parts[0])
		if _, ok := bills.GetHotel(hotelKey); !ok {
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			items, err := st.ListEquipment(r.Context(), hotelKey)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if items == nil {
				items = []storage.EquipmentCount{}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(items)

		case http.MethodPut, http.MethodPost:
			if !requireWrite(authSvc, w, r, "equipment") {
				return
			}
			var e storage.EquipmentCount
			if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}
			if e.Name == "" {
				http.Error(w, "name is required", http.StatusBadRequest)
				return
			}
			if e.ID == "" {
				e.ID = uuid.New().String()
			}
			e.HotelKey = hotelKey
			e.UpdatedAt = time.Now()
			if err := st.UpsertEquipment(r.Context(), e); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(e)

		case http.MethodDelete:
			if !requireWrite(authSvc, w, r, "equipment") {
				return
			}
			if len(parts) != 2 || parts[1] == "" {
				http.Error(w, "id required", http.StatusBadRequest)
				return
			}
			if err := st.DeleteEquipment(r.Context(), parts[1]); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
}
