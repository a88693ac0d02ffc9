package storage

import (
	"context"
	"time"
)

// Storage abstracts persistence for hotels, bill snapshots, equipment,
// compliance tasks, users and settings.
type Storage interface {
	// Hotels
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, key string) (*Hotel, error)
	UpsertHotel(ctx context.Context, h Hotel) error

	// Bill snapshots (latest per hotel)
	GetBillSnapshot(ctx context.Context, hotelKey string) (*BillSnapshot, error)
	SaveBillSnapshot(ctx context.Context, snap BillSnapshot) error

	// Equipment counts
	ListEquipment(ctx context.Context, hotelKey string) ([]EquipmentCount, error)
	UpsertEquipment(ctx context.Context, e EquipmentCount) error
	DeleteEquipment(ctx context.Context, id string) error

	// Compliance tasks
	ListComplianceTasks(ctx context.Context, hotelKey string) ([]ComplianceTask, error)
	GetComplianceTask(ctx context.Context, id string) (*ComplianceTask, error)
	UpsertComplianceTask(ctx context.Context, t ComplianceTask) error
	DeleteComplianceTask(ctx context.Context, id string) error

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Users
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)

	// Tokens
	CreateToken(ctx context.Context, token Token) error
	GetToken(ctx context.Context, id string) (*Token, error)
	GetTokenByHash(ctx context.Context, hash string) (*Token, error)
	ListTokens(ctx context.Context, userID string) ([]Token, error)
	DeleteToken(ctx context.Context, id string) error
	UpdateTokenLastUsed(ctx context.Context, id string) error

	// Casbin rules
	LoadCasbinRules(ctx context.Context) ([]CasbinRule, error)
	AddCasbinRule(ctx context.Context, rule CasbinRule) error
	RemoveCasbinRule(ctx context.Context, rule CasbinRule) error

	// Email config
	GetEmailConfig(ctx context.Context) (*EmailConfig, error)
	SaveEmailConfig(ctx context.Context, config EmailConfig) error

	// Scheduled jobs & locking. Advisory locks are real only on Postgres;
	// other backends report success (single-instance assumption).
	AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error)
	ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error)
	UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error

	// Ping reports backend health; Close releases resources.
	Ping(ctx context.Context) error
	Close() error
}
