package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage implementation, useful for tests and
// simple single-process deployments.
type MemoryStorage struct {
	mu          sync.RWMutex
	hotels      map[string]Hotel
	snaps       map[string]BillSnapshot
	equipment   map[string]EquipmentCount
	compliance  map[string]ComplianceTask
	settings    map[string]string
	users       map[string]User
	tokens      map[string]Token
	casbinRules []CasbinRule
	emailConfig *EmailConfig
}

// NewMemory returns an empty MemoryStorage.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		hotels:     make(map[string]Hotel),
		snaps:      make(map[string]BillSnapshot),
		equipment:  make(map[string]EquipmentCount),
		compliance: make(map[string]ComplianceTask),
		settings:   make(map[string]string),
		users:      make(map[string]User),
		tokens:     make(map[string]Token),
	}
}

// NewMemoryWithHotels returns a MemoryStorage preloaded with the given hotel
// list. Conversion from descriptor types is done by callers to avoid an
// import cycle with the bills package.
func NewMemoryWithHotels(list []Hotel) *MemoryStorage {
	m := NewMemory()
	for _, h := range list {
		m.hotels[h.Key] = h
	}
	return m
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

// Hotels

func (m *MemoryStorage) ListHotels(ctx context.Context) ([]Hotel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Hotel, 0, len(m.hotels))
	for _, h := range m.hotels {
		out = append(out, h)
	}
	return out, nil
}

func (m *MemoryStorage) GetHotel(ctx context.Context, key string) (*Hotel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hotels[key]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (m *MemoryStorage) UpsertHotel(ctx context.Context, h Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotels[h.Key] = h
	return nil
}

// Bill snapshots

func (m *MemoryStorage) GetBillSnapshot(ctx context.Context, hotelKey string) (*BillSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snaps[hotelKey]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStorage) SaveBillSnapshot(ctx context.Context, snap BillSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}
	m.snaps[snap.HotelKey] = snap
	return nil
}

// Equipment counts

func (m *MemoryStorage) ListEquipment(ctx context.Context, hotelKey string) ([]EquipmentCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []EquipmentCount
	for _, e := range m.equipment {
		if e.HotelKey == hotelKey {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStorage) UpsertEquipment(ctx context.Context, e EquipmentCount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.UpdatedAt = time.Now()
	m.equipment[e.ID] = e
	return nil
}

func (m *MemoryStorage) DeleteEquipment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.equipment, id)
	return nil
}

// Compliance tasks

func (m *MemoryStorage) ListComplianceTasks(ctx context.Context, hotelKey string) ([]ComplianceTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ComplianceTask
	for _, t := range m.compliance {
		if t.HotelKey == hotelKey {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryStorage) GetComplianceTask(ctx context.Context, id string) (*ComplianceTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.compliance[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *MemoryStorage) UpsertComplianceTask(ctx context.Context, t ComplianceTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.UpdatedAt = time.Now()
	m.compliance[t.ID] = t
	return nil
}

func (m *MemoryStorage) DeleteComplianceTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.compliance, id)
	return nil
}

// Settings

func (m *MemoryStorage) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[key], nil
}

func (m *MemoryStorage) SetSetting(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

// Users

func (m *MemoryStorage) CreateUser(ctx context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MemoryStorage) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryStorage) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) UpdateUser(ctx context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return nil
	}
	m.users[user.ID] = user
	return nil
}

func (m *MemoryStorage) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MemoryStorage) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

// Tokens

func (m *MemoryStorage) CreateToken(ctx context.Context, token Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = token
	return nil
}

func (m *MemoryStorage) GetToken(ctx context.Context, id string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tokens[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *MemoryStorage) GetTokenByHash(ctx context.Context, hash string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tokens {
		if t.TokenHash == hash {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *MemoryStorage) ListTokens(ctx context.Context, userID string) ([]Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Token
	for _, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryStorage) DeleteToken(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

func (m *MemoryStorage) UpdateTokenLastUsed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[id]; ok {
		now := time.Now()
		t.LastUsedAt = &now
		m.tokens[id] = t
	}
	return nil
}

// Casbin rules

func (m *MemoryStorage) LoadCasbinRules(ctx context.Context) ([]CasbinRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CasbinRule, len(m.casbinRules))
	copy(out, m.casbinRules)
	return out, nil
}

func (m *MemoryStorage) AddCasbinRule(ctx context.Context, rule CasbinRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.casbinRules {
		if sameCasbinRule(r, rule) {
			return nil
		}
	}
	rule.ID = uint(len(m.casbinRules) + 1)
	m.casbinRules = append(m.casbinRules, rule)
	return nil
}

func (m *MemoryStorage) RemoveCasbinRule(ctx context.Context, rule CasbinRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.casbinRules {
		if sameCasbinRule(r, rule) {
			m.casbinRules = append(m.casbinRules[:i], m.casbinRules[i+1:]...)
			return nil
		}
	}
	return nil
}

func sameCasbinRule(a, b CasbinRule) bool {
	return a.PType == b.PType &&
		a.V0 == b.V0 && a.V1 == b.V1 && a.V2 == b.V2 &&
		a.V3 == b.V3 && a.V4 == b.V4 && a.V5 == b.V5
}

// Email config

func (m *MemoryStorage) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.emailConfig == nil {
		return nil, nil
	}
	cfg := *m.emailConfig
	return &cfg, nil
}

func (m *MemoryStorage) SaveEmailConfig(ctx context.Context, config EmailConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailConfig = &config
	return nil
}

// Scheduled jobs & locking: single instance, lock always acquired.

func (m *MemoryStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	return true, nil
}

func (m *MemoryStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	return true, nil
}

func (m *MemoryStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	return nil
}
