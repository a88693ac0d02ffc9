package bills

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/clopse/hotelfm/internal/storage"
)

// Config controls how the bills service behaves.
type Config struct {
	// APIBase is the base URL of the upstream utilities API.
	APIBase string
	// HTTPClient overrides the default 30s-timeout client when non-nil.
	HTTPClient *http.Client
}

// Service coordinates fetching and caching of raw bills and exposes the
// derived views (normalized rows, monthly series) built on them. All derived
// computations are pure and recomputed from the bill snapshot on demand; the
// bounded data volume (a few hundred bills per hotel) makes incremental
// updates unnecessary.
type Service struct {
	cfg    Config
	client *Client
	store  storage.Storage // may be nil for fetch-only mode
}

// NewService returns a fetch-only Service with no snapshot caching.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg, client: NewClient(cfg.APIBase, cfg.HTTPClient)}
}

// NewServiceWithStorage returns a Service that caches bill snapshots in the
// provided storage backend, one snapshot per hotel.
func NewServiceWithStorage(cfg Config, st storage.Storage) *Service {
	s := NewService(cfg)
	s.store = st
	return s
}

// GetBills returns the raw bills for a hotel. It consults the cached snapshot
// first; on miss or decode failure it fetches from the upstream API and
// writes the snapshot back best-effort.
func (s *Service) GetBills(ctx context.Context, hotelKey string) ([]RawBill, error) {
	if _, ok := GetHotel(hotelKey); !ok {
		return nil, fmt.Errorf("unknown hotel: %s", hotelKey)
	}

	if s.store != nil {
		snap, err := s.store.GetBillSnapshot(ctx, hotelKey)
		if err == nil && snap != nil && len(snap.Payload) > 0 {
			var bills []RawBill
			if err := json.Unmarshal(snap.Payload, &bills); err == nil {
				return bills, nil
			}
			// Undecodable snapshot: fall through to refetch.
		}
	}

	return s.ForceRefresh(ctx, hotelKey)
}

// ForceRefresh fetches a hotel's bills from the upstream API, bypassing any
// cached snapshot, and writes the result back to storage best-effort.
func (s *Service) ForceRefresh(ctx context.Context, hotelKey string) ([]RawBill, error) {
	h, ok := GetHotel(hotelKey)
	if !ok {
		return nil, fmt.Errorf("unknown hotel: %s", hotelKey)
	}

	bills, err := s.client.FetchBills(ctx, h.UpstreamID)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if payload, err := json.Marshal(bills); err == nil {
			_ = s.store.SaveBillSnapshot(ctx, storage.BillSnapshot{
				HotelKey:  hotelKey,
				Payload:   payload,
				FetchedAt: time.Now(),
			})
		}
	}
	return bills, nil
}

// AllBills returns every hotel's bills keyed by hotel. Hotels are fetched
// sequentially; a failed hotel is logged and skipped so one outage never
// empties the aggregate view.
func (s *Service) AllBills(ctx context.Context) map[string][]RawBill {
	out := make(map[string][]RawBill)
	for _, h := range Hotels() {
		bills, err := s.GetBills(ctx, h.Key)
		if err != nil {
			log.Printf("bills: fetch %s failed: %v", h.Key, err)
			continue
		}
		out[h.Key] = bills
	}
	return out
}

// Rows returns the normalized rows for one hotel.
func (s *Service) Rows(ctx context.Context, hotelKey string) ([]Row, error) {
	raw, err := s.GetBills(ctx, hotelKey)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(raw), nil
}

// AllRows returns normalized rows across every hotel.
func (s *Service) AllRows(ctx context.Context) []Row {
	var rows []Row
	for _, h := range Hotels() {
		hotelRows, err := s.Rows(ctx, h.Key)
		if err != nil {
			log.Printf("bills: rows for %s failed: %v", h.Key, err)
			continue
		}
		rows = append(rows, hotelRows...)
	}
	return rows
}

// MonthlySeries builds the per-month time series for one hotel and year by
// spreading every dated bill across its billing period and folding the daily
// ledger into calendar months.
func (s *Service) MonthlySeries(ctx context.Context, hotelKey string, year int) (YearSeries, error) {
	raw, err := s.GetBills(ctx, hotelKey)
	if err != nil {
		return YearSeries{}, err
	}
	ledger := NewDailyLedger()
	ledger.SpreadAll(raw)
	return AggregateYear(ledger, year), nil
}
