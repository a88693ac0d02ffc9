package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(driver, dsn string) (*GormStorage, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.AutoMigrate(
		&Hotel{},
		&BillSnapshot{},
		&EquipmentCount{},
		&ComplianceTask{},
		&Setting{},
		&User{},
		&Token{},
		&CasbinRule{},
		&EmailConfig{},
		&ScheduledJob{},
	)
}

// Hotels

func (s *GormStorage) ListHotels(ctx context.Context) ([]Hotel, error) {
	var hotels []Hotel
	result := s.db.WithContext(ctx).Find(&hotels)
	return hotels, result.Error
}

func (s *GormStorage) GetHotel(ctx context.Context, key string) (*Hotel, error) {
	var h Hotel
	result := s.db.WithContext(ctx).First(&h, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &h, nil
}

func (s *GormStorage) UpsertHotel(ctx context.Context, h Hotel) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&h).Error
}

// Bill snapshots

func (s *GormStorage) GetBillSnapshot(ctx context.Context, hotelKey string) (*BillSnapshot, error) {
	var snap BillSnapshot
	result := s.db.WithContext(ctx).Order("fetched_at desc").First(&snap, "hotel_key = ?", hotelKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &snap, nil
}

func (s *GormStorage) SaveBillSnapshot(ctx context.Context, snap BillSnapshot) error {
	return s.db.WithContext(ctx).Create(&snap).Error
}

// Equipment counts

func (s *GormStorage) ListEquipment(ctx context.Context, hotelKey string) ([]EquipmentCount, error) {
	var items []EquipmentCount
	result := s.db.WithContext(ctx).Find(&items, "hotel_key = ?", hotelKey)
	return items, result.Error
}

func (s *GormStorage) UpsertEquipment(ctx context.Context, e EquipmentCount) error {
	e.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&e).Error
}

func (s *GormStorage) DeleteEquipment(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&EquipmentCount{}, "id = ?", id).Error
}

// Compliance tasks

func (s *GormStorage) ListComplianceTasks(ctx context.Context, hotelKey string) ([]ComplianceTask, error) {
	var tasks []ComplianceTask
	result := s.db.WithContext(ctx).Find(&tasks, "hotel_key = ?", hotelKey)
	return tasks, result.Error
}

func (s *GormStorage) GetComplianceTask(ctx context.Context, id string) (*ComplianceTask, error) {
	var t ComplianceTask
	result := s.db.WithContext(ctx).First(&t, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &t, nil
}

func (s *GormStorage) UpsertComplianceTask(ctx context.Context, t ComplianceTask) error {
	t.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&t).Error
}

func (s *GormStorage) DeleteComplianceTask(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&ComplianceTask{}, "id = ?", id).Error
}

// Settings

func (s *GormStorage) GetSetting(ctx context.Context, key string) (string, error) {
	var setting Setting
	result := s.db.WithContext(ctx).First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return setting.Value, nil
}

func (s *GormStorage) SetSetting(ctx context.Context, key, value string) error {
	setting := Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&setting).Error
}

// Users

func (s *GormStorage) CreateUser(ctx context.Context, user User) error {
	return s.db.WithContext(ctx).Create(&user).Error
}

func (s *GormStorage) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	result := s.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	result := s.db.WithContext(ctx).First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	result := s.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

func (s *GormStorage) UpdateUser(ctx context.Context, user User) error {
	return s.db.WithContext(ctx).Save(&user).Error
}

func (s *GormStorage) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}

func (s *GormStorage) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	result := s.db.WithContext(ctx).Find(&users)
	return users, result.Error
}

// Tokens

func (s *GormStorage) CreateToken(ctx context.Context, token Token) error {
	return s.db.WithContext(ctx).Create(&token).Error
}

func (s *GormStorage) GetToken(ctx context.Context, id string) (*Token, error) {
	var token Token
	result := s.db.WithContext(ctx).First(&token, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &token, nil
}

func (s *GormStorage) GetTokenByHash(ctx context.Context, hash string) (*Token, error) {
	var token Token
	result := s.db.WithContext(ctx).First(&token, "token_hash = ?", hash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &token, nil
}

func (s *GormStorage) ListTokens(ctx context.Context, userID string) ([]Token, error) {
	var tokens []Token
	result := s.db.WithContext(ctx).Find(&tokens, "user_id = ?", userID)
	return tokens, result.Error
}

func (s *GormStorage) DeleteToken(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&Token{}, "id = ?", id).Error
}

func (s *GormStorage) UpdateTokenLastUsed(ctx context.Context, id string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&Token{}).Where("id = ?", id).Update("last_used_at", now).Error
}

// Casbin rules

func (s *GormStorage) LoadCasbinRules(ctx context.Context) ([]CasbinRule, error) {
	var rules []CasbinRule
	result := s.db.WithContext(ctx).Find(&rules)
	return rules, result.Error
}

func (s *GormStorage) AddCasbinRule(ctx context.Context, rule CasbinRule) error {
	return s.db.WithContext(ctx).Create(&rule).Error
}

func (s *GormStorage) RemoveCasbinRule(ctx context.Context, rule CasbinRule) error {
	return s.db.WithContext(ctx).Where(&rule).Delete(&CasbinRule{}).Error
}

// Email config

func (s *GormStorage) GetEmailConfig(ctx context.Context) (*EmailConfig, error) {
	var config EmailConfig
	result := s.db.WithContext(ctx).First(&config)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &config, nil
}

func (s *GormStorage) SaveEmailConfig(ctx context.Context, config EmailConfig) error {
	if config.ID == "" {
		config.ID = "default"
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&config).Error
}

// Close & Ping

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Scheduled jobs & locking

func (s *GormStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	if s.db.Dialector.Name() == "postgres" {
		var ok bool
		err := s.db.WithContext(ctx).Raw("SELECT pg_try_advisory_lock(?)", key).Scan(&ok).Error
		return ok, err
	}
	// SQLite has no advisory locks; assume a single instance.
	return true, nil
}

func (s *GormStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	if s.db.Dialector.Name() == "postgres" {
		var ok bool
		err := s.db.WithContext(ctx).Raw("SELECT pg_advisory_unlock(?)", key).Scan(&ok).Error
		return ok, err
	}
	return true, nil
}

func (s *GormStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	status := 0
	if success {
		status = 1
	}
	job := ScheduledJob{
		Name:           name,
		LastRunAt:      started,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    status,
		LastError:      errMsg,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&job).Error
}
