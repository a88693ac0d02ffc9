package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clopse/hotelfm/internal/auth"
	"github.com/clopse/hotelfm/internal/bills"
	"github.com/clopse/hotelfm/internal/metrics"
)

func registerBillRoutes(mux *http.ServeMux, svc *bills.Service, authSvc *auth.Service) {
	mux.Handle("/api/hotels", withAuth(authSvc, handleHotelList))
	mux.Handle("/api/hotels/", withAuth(authSvc, handleHotel(svc, authSvc)))
	mux.Handle("/api/bills", withAuth(authSvc, handleAllBills(svc)))
	mux.Handle("/api/bills/export.csv", withAuth(authSvc, handleExportCSV(svc)))
}

// handleHotelList serves GET /api/hotels.
func handleHotelList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	response := struct {
		Hotels []bills.HotelDescriptor `json:"hotels"`
	}{
		Hotels: bills.Hotels(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleHotel serves the per-hotel subtree:
//
//	GET  /api/hotels/{key}
//	GET  /api/hotels/{key}/bills        filtered + sorted normalized rows
//	GET  /api/hotels/{key}/bills/raw    raw bill payloads
//	POST /api/hotels/{key}/bills/refresh
//	GET  /api/hotels/{key}/series/{year}
func handleHotel(svc *bills.Service, authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		path := strings.TrimPrefix(r.URL.Path, "/api/hotels/")
		parts := strings.Split(path, "/")
		hotelKey := strings.ToLower(parts[0])
		if hotelKey == "" {
			metrics.RequestErrorsTotal.WithLabelValues("unknown", r.URL.Path, "404").Inc()
			http.NotFound(w, r)
			return
		}

		if _, ok := bills.GetHotel(hotelKey); !ok {
			metrics.RequestErrorsTotal.WithLabelValues(hotelKey, r.URL.Path, "404").Inc()
			http.NotFound(w, r)
			return
		}

		metrics.RequestsTotal.WithLabelValues(hotelKey).Inc()

		// GET /api/hotels/{key}
		if len(parts) == 1 {
			labelsPath := "/api/hotels/detail"
			defer observe(hotelKey, labelsPath, start)
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h, _ := bills.GetHotel(hotelKey)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(h)
			return
		}

		switch parts[1] {
		case "bills":
			// POST /api/hotels/{key}/bills/refresh
			if len(parts) == 3 && parts[2] == "refresh" {
				labelsPath := "/api/hotels/bills/refresh"
				defer observe(hotelKey, labelsPath, start)
				if r.Method != http.MethodPost {
					http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
					return
				}
				if !requireWrite(authSvc, w, r, "bills") {
					return
				}
				fetchStart := time.Now()
				raws, err := svc.ForceRefresh(r.Context(), hotelKey)
				metrics.BillFetchDurationSeconds.WithLabelValues(hotelKey).Observe(time.Since(fetchStart).Seconds())
				if err != nil {
					log.Printf("refresh bills for %s failed: %v", hotelKey, err)
					metrics.RequestErrorsTotal.WithLabelValues(hotelKey, labelsPath, "502").Inc()
					http.Error(w, "upstream fetch failed", http.StatusBadGateway)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"hotel_id": hotelKey,
					"count":    len(raws),
					"status":   "refreshed",
				})
				return
			}

			// GET /api/hotels/{key}/bills/raw
			if len(parts) == 3 && parts[2] == "raw" {
				labelsPath := "/api/hotels/bills/raw"
				defer observe(hotelKey, labelsPath, start)
				if r.Method != http.MethodGet {
					http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
					return
				}
				raws, err := svc.GetBills(r.Context(), hotelKey)
				if err != nil {
					log.Printf("get raw bills for %s failed: %v", hotelKey, err)
					metrics.RequestErrorsTotal.WithLabelValues(hotelKey, labelsPath, "502").Inc()
					http.Error(w, "upstream fetch failed", http.StatusBadGateway)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"bills": raws})
				return
			}

			// GET /api/hotels/{key}/bills
			if len(parts) == 2 {
				labelsPath := "/api/hotels/bills"
				defer observe(hotelKey, labelsPath, start)
				if r.Method != http.MethodGet {
					http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
					return
				}
				rows, err := svc.Rows(r.Context(), hotelKey)
				if err != nil {
					log.Printf("get bills for %s failed: %v", hotelKey, err)
					metrics.RequestErrorsTotal.WithLabelValues(hotelKey, labelsPath, "502").Inc()
					http.Error(w, "upstream fetch failed", http.StatusBadGateway)
					return
				}
				writeRows(w, r, rows)
				return
			}

		case "series":
			// GET /api/hotels/{key}/series/{year}
			labelsPath := "/api/hotels/series"
			defer observe(hotelKey, labelsPath, start)
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			year := time.Now().Year()
			if len(parts) == 3 {
				y, err := strconv.Atoi(parts[2])
				if err != nil {
					metrics.RequestErrorsTotal.WithLabelValues(hotelKey, labelsPath, "400").Inc()
					http.Error(w, "invalid year", http.StatusBadRequest)
					return
				}
				year = y
			}
			series, err := svc.MonthlySeries(r.Context(), hotelKey, year)
			if err != nil {
				log.Printf("monthly series for %s failed: %v", hotelKey, err)
				metrics.RequestErrorsTotal.WithLabelValues(hotelKey, labelsPath, "502").Inc()
				http.Error(w, "upstream fetch failed", http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(series)
			return
		}

		metrics.RequestErrorsTotal.WithLabelValues(hotelKey, r.URL.Path, "404").Inc()
		http.NotFound(w, r)
	}
}

// handleAllBills serves GET /api/bills: normalized rows across every hotel,
// with the same filter/sort query parameters as the per-hotel endpoint.
func handleAllBills(svc *bills.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		labelsPath := "/api/bills"
		defer observe("all", labelsPath, start)
		metrics.RequestsTotal.WithLabelValues("all").Inc()

		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeRows(w, r, svc.AllRows(r.Context()))
	}
}

// handleExportCSV serves GET /api/bills/export.csv. The filter and sort
// parameters match /api/bills; `ids` optionally restricts the export to a
// comma-separated list of row IDs.
func handleExportCSV(svc *bills.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		labelsPath := "/api/bills/export.csv"
		defer observe("all", labelsPath, start)
		metrics.RequestsTotal.WithLabelValues("all").Inc()

		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rows := applyQuery(r, svc.AllRows(r.Context()))
		if ids := r.URL.Query().Get("ids"); ids != "" {
			selected := make(map[string]bool)
			for _, id := range strings.Split(ids, ",") {
				selected[strings.TrimSpace(id)] = true
			}
			kept := rows[:0]
			for _, row := range rows {
				if selected[row.ID] {
					kept = append(kept, row)
				}
			}
			rows = kept
		}

		filename := fmt.Sprintf("utility_bills_%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		if err := bills.WriteCSV(w, rows); err != nil {
			log.Printf("csv export failed: %v", err)
		}
	}
}

// applyQuery reads the filter and sort query parameters and applies them.
func applyQuery(r *http.Request, rows []bills.Row) []bills.Row {
	q := r.URL.Query()
	rows = bills.Filter(rows, bills.Query{
		HotelID: q.Get("hotel"),
		Type:    q.Get("type"),
		From:    q.Get("from"),
		To:      q.Get("to"),
		Search:  q.Get("search"),
	})
	if key := q.Get("sort"); key != "" {
		rows = bills.SortRows(rows, key, q.Get("dir") == "desc")
	}
	return rows
}

// writeRows applies the request's query to rows and responds with the rows
// plus recomputed totals.
func writeRows(w http.ResponseWriter, r *http.Request, rows []bills.Row) {
	rows = applyQuery(r, rows)

	var selected map[string]bool
	if ids := r.URL.Query().Get("selected"); ids != "" {
		selected = make(map[string]bool)
		for _, id := range strings.Split(ids, ",") {
			selected[strings.TrimSpace(id)] = true
		}
	}

	response := struct {
		Bills  []bills.Row  `json:"bills"`
		Totals bills.Totals `json:"totals"`
	}{
		Bills:  rows,
		Totals: bills.ComputeTotals(rows, selected),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func observe(hotel, path string, start time.Time) {
	metrics.RequestDurationSeconds.WithLabelValues(hotel, path).Observe(time.Since(start).Seconds())
}
