package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemoryHotels(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryWithHotels([]Hotel{
		{Key: "hiex", Name: "Holiday Inn Express Dublin City Centre"},
	})

	h, err := m.GetHotel(ctx, "hiex")
	if err != nil || h == nil {
		t.Fatalf("expected preloaded hotel, got %v err=%v", h, err)
	}

	if err := m.UpsertHotel(ctx, Hotel{Key: "moxy", Name: "Moxy Dublin Docklands"}); err != nil {
		t.Fatalf("upsert hotel: %v", err)
	}
	list, _ := m.ListHotels(ctx)
	if len(list) != 2 {
		t.Errorf("expected 2 hotels, got %d", len(list))
	}

	missing, err := m.GetHotel(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("missing hotel should be (nil, nil), got %v err=%v", missing, err)
	}
}

func TestMemoryBillSnapshots(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if s, _ := m.GetBillSnapshot(ctx, "hiex"); s != nil {
		t.Fatal("expected no snapshot initially")
	}

	if err := m.SaveBillSnapshot(ctx, BillSnapshot{HotelKey: "hiex", Payload: []byte(`[]`)}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	s, err := m.GetBillSnapshot(ctx, "hiex")
	if err != nil || s == nil {
		t.Fatalf("expected snapshot, got %v err=%v", s, err)
	}
	if s.FetchedAt.IsZero() {
		t.Error("expected FetchedAt stamped on save")
	}

	// A later save replaces the snapshot.
	m.SaveBillSnapshot(ctx, BillSnapshot{HotelKey: "hiex", Payload: []byte(`[{"id":"x"}]`)})
	s, _ = m.GetBillSnapshot(ctx, "hiex")
	if string(s.Payload) != `[{"id":"x"}]` {
		t.Errorf("expected latest payload, got %s", s.Payload)
	}
}

func TestMemoryEquipmentAndCompliance(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.UpsertEquipment(ctx, EquipmentCount{ID: "e1", HotelKey: "hiex", Name: "Fire Extinguisher", Count: 42})
	m.UpsertEquipment(ctx, EquipmentCount{ID: "e2", HotelKey: "moxy", Name: "AHU", Count: 4})

	items, _ := m.ListEquipment(ctx, "hiex")
	if len(items) != 1 || items[0].Count != 42 {
		t.Errorf("unexpected equipment list %+v", items)
	}
	m.DeleteEquipment(ctx, "e1")
	if items, _ := m.ListEquipment(ctx, "hiex"); len(items) != 0 {
		t.Error("expected equipment deleted")
	}

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	m.UpsertComplianceTask(ctx, ComplianceTask{ID: "c1", HotelKey: "hiex", Title: "Fire alarm service", DueDate: &due})
	task, _ := m.GetComplianceTask(ctx, "c1")
	if task == nil || task.Title != "Fire alarm service" {
		t.Fatalf("unexpected task %+v", task)
	}
	tasks, _ := m.ListComplianceTasks(ctx, "hiex")
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
	m.DeleteComplianceTask(ctx, "c1")
	if task, _ := m.GetComplianceTask(ctx, "c1"); task != nil {
		t.Error("expected task deleted")
	}
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if v, _ := m.GetSetting(ctx, "refresh_interval_seconds"); v != "" {
		t.Errorf("expected empty setting, got %q", v)
	}
	m.SetSetting(ctx, "refresh_interval_seconds", "600")
	if v, _ := m.GetSetting(ctx, "refresh_interval_seconds"); v != "600" {
		t.Errorf("expected 600, got %q", v)
	}
}

func TestMemoryUsersAndTokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.CreateUser(ctx, User{ID: "u1", Username: "alice", Role: "admin"})
	u, _ := m.GetUserByUsername(ctx, "alice")
	if u == nil || u.ID != "u1" {
		t.Fatalf("expected user by username, got %+v", u)
	}
	if u, _ := m.GetUserByUsername(ctx, "bob"); u != nil {
		t.Error("missing user should be nil")
	}

	m.CreateToken(ctx, Token{ID: "t1", UserID: "u1", TokenHash: "abc"})
	tok, _ := m.GetTokenByHash(ctx, "abc")
	if tok == nil || tok.ID != "t1" {
		t.Fatalf("expected token by hash, got %+v", tok)
	}

	m.UpdateTokenLastUsed(ctx, "t1")
	tok, _ = m.GetToken(ctx, "t1")
	if tok.LastUsedAt == nil {
		t.Error("expected LastUsedAt set")
	}

	toks, _ := m.ListTokens(ctx, "u1")
	if len(toks) != 1 {
		t.Errorf("expected 1 token, got %d", len(toks))
	}
	m.DeleteToken(ctx, "t1")
	if tok, _ := m.GetToken(ctx, "t1"); tok != nil {
		t.Error("expected token deleted")
	}
}

func TestMemoryCasbinRules(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rule := CasbinRule{PType: "g", V0: "u1", V1: "admin"}
	m.AddCasbinRule(ctx, rule)
	m.AddCasbinRule(ctx, rule) // duplicate, ignored
	m.AddCasbinRule(ctx, CasbinRule{PType: "p", V0: "editor", V1: "bills", V2: "write"})

	rules, _ := m.LoadCasbinRules(ctx)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	m.RemoveCasbinRule(ctx, rule)
	rules, _ = m.LoadCasbinRules(ctx)
	if len(rules) != 1 || rules[0].PType != "p" {
		t.Errorf("unexpected rules after remove: %+v", rules)
	}
}

func TestMemoryEmailConfig(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if cfg, _ := m.GetEmailConfig(ctx); cfg != nil {
		t.Fatal("expected no config initially")
	}
	m.SaveEmailConfig(ctx, EmailConfig{ID: "cfg", Provider: "smtp", Enabled: true})
	cfg, _ := m.GetEmailConfig(ctx)
	if cfg == nil || cfg.Provider != "smtp" || !cfg.Enabled {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestMemoryAdvisoryLock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.AcquireAdvisoryLock(ctx, 47)
	if err != nil || !ok {
		t.Errorf("memory lock should always acquire, got %v err=%v", ok, err)
	}
	if ok, _ := m.ReleaseAdvisoryLock(ctx, 47); !ok {
		t.Error("memory lock should always release")
	}
}
