package bills

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/clopse/hotelfm/internal/storage"
)

// upstreamStub serves the bills envelope for any hotel and counts hits.
func upstreamStub(t *testing.T, bills []RawBill, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"bills": bills})
	}))
}

func TestGetBillsUnknownHotel(t *testing.T) {
	svc := NewService(Config{APIBase: "http://localhost:0"})
	if _, err := svc.GetBills(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown hotel")
	}
}

func TestGetBillsFetchesAndCaches(t *testing.T) {
	var hits int32
	upstream := upstreamStub(t, []RawBill{{ID: "e-1", UtilityType: "electricity"}}, &hits)
	defer upstream.Close()

	st := storage.NewMemory()
	svc := NewServiceWithStorage(Config{APIBase: upstream.URL}, st)

	ctx := context.Background()
	bills, err := svc.GetBills(ctx, "hiex")
	if err != nil {
		t.Fatalf("GetBills failed: %v", err)
	}
	if len(bills) != 1 || bills[0].ID != "e-1" {
		t.Fatalf("unexpected bills %+v", bills)
	}
	if bills[0].HotelID != "hiex" {
		t.Errorf("expected hotel id stamped, got %q", bills[0].HotelID)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", hits)
	}

	// Second call is served from the snapshot.
	if _, err := svc.GetBills(ctx, "hiex"); err != nil {
		t.Fatalf("cached GetBills failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected snapshot to serve the second call, upstream hits=%d", hits)
	}

	// ForceRefresh always goes upstream.
	if _, err := svc.ForceRefresh(ctx, "hiex"); err != nil {
		t.Fatalf("ForceRefresh failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("expected refresh to hit upstream, hits=%d", hits)
	}
}

func TestGetBillsCorruptSnapshotRefetches(t *testing.T) {
	var hits int32
	upstream := upstreamStub(t, []RawBill{{ID: "e-1", UtilityType: "electricity"}}, &hits)
	defer upstream.Close()

	st := storage.NewMemory()
	ctx := context.Background()
	if err := st.SaveBillSnapshot(ctx, storage.BillSnapshot{HotelKey: "hiex", Payload: []byte("{not json")}); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	svc := NewServiceWithStorage(Config{APIBase: upstream.URL}, st)
	bills, err := svc.GetBills(ctx, "hiex")
	if err != nil {
		t.Fatalf("GetBills failed: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("expected refetched bills, got %+v", bills)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected upstream refetch on corrupt snapshot, hits=%d", hits)
	}
}

func TestGetBillsUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svc := NewService(Config{APIBase: upstream.URL})
	if _, err := svc.GetBills(context.Background(), "hiex"); err == nil {
		t.Fatal("expected error on upstream 500")
	}
}

func TestMonthlySeriesFromService(t *testing.T) {
	billsPayload := []RawBill{
		{
			ID:          "e-1",
			UtilityType: "electricity",
			Summary: map[string]any{
				"billing_period_start": "2024-06-01",
				"billing_period_end":   "2024-06-30",
				"total_kwh":            600.0,
				"total_cost":           900.0,
			},
		},
		// Undated: must not appear in the series.
		{ID: "e-2", UtilityType: "electricity", Summary: map[string]any{"total_kwh": 999.0}},
	}
	var hits int32
	upstream := upstreamStub(t, billsPayload, &hits)
	defer upstream.Close()

	svc := NewServiceWithStorage(Config{APIBase: upstream.URL}, storage.NewMemory())
	series, err := svc.MonthlySeries(context.Background(), "moxy", 2024)
	if err != nil {
		t.Fatalf("MonthlySeries failed: %v", err)
	}
	if len(series.Months) != 1 {
		t.Fatalf("expected 1 month, got %d", len(series.Months))
	}
	m := series.Months[0]
	if m.Month != "2024-06" || !m.IsComplete {
		t.Errorf("unexpected month bucket %+v", m)
	}
	if m.ElectricityKWh < 599.99 || m.ElectricityKWh > 600.01 {
		t.Errorf("expected 600 kWh, got %f", m.ElectricityKWh)
	}
}

func TestAllRowsSkipsFailingHotel(t *testing.T) {
	// Upstream only ever returns one bill; every hotel fetch succeeds, so we
	// get one row per hotel.
	var hits int32
	upstream := upstreamStub(t, []RawBill{{ID: "e-1", UtilityType: "electricity",
		Summary: map[string]any{"total_kwh": 10.0}}}, &hits)
	defer upstream.Close()

	svc := NewService(Config{APIBase: upstream.URL})
	rows := svc.AllRows(context.Background())
	if len(rows) != len(Hotels()) {
		t.Errorf("expected one row per hotel, got %d", len(rows))
	}
}
