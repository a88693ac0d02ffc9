package storage

import "time"

// Hotel holds metadata about a managed property.
type Hotel struct {
	Key        string `json:"key" gorm:"primaryKey;column:key"`
	Name       string `json:"name" gorm:"column:name"`
	UpstreamID string `json:"upstreamId" gorm:"column:upstream_id"`
	City       string `json:"city,omitempty" gorm:"column:city"`
	Notes      string `json:"notes,omitempty" gorm:"column:notes"`
}

// BillSnapshot stores the most recently fetched raw-bill payload for a hotel.
type BillSnapshot struct {
	ID        uint      `json:"-" gorm:"primaryKey;column:id"`
	HotelKey  string    `json:"hotel_key" gorm:"column:hotel_key"`
	Payload   []byte    `json:"payload" gorm:"column:payload"`
	FetchedAt time.Time `json:"fetched_at" gorm:"column:fetched_at"`
}

// EquipmentCount is one equipment inventory line for a hotel, e.g. fire
// extinguishers, AHUs, boilers. Category groups the building/fire/mechanical/
// utility sections of the equipment forms.
type EquipmentCount struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	HotelKey  string    `json:"hotel_key" gorm:"column:hotel_key;index"`
	Category  string    `json:"category" gorm:"column:category"`
	Name      string    `json:"name" gorm:"column:name"`
	Count     int       `json:"count" gorm:"column:count"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// ComplianceTask is one entry in a hotel's compliance checklist.
type ComplianceTask struct {
	ID          string     `json:"id" gorm:"primaryKey;column:id"`
	HotelKey    string     `json:"hotel_key" gorm:"column:hotel_key;index"`
	Title       string     `json:"title" gorm:"column:title"`
	Category    string     `json:"category" gorm:"column:category"`
	DueDate     *time.Time `json:"due_date,omitempty" gorm:"column:due_date"`
	Done        bool       `json:"done" gorm:"column:done"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

// User represents a registered user in the system.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;column:id"`
	Username     string    `json:"username" gorm:"unique;column:username"`
	FirstName    string    `json:"first_name" gorm:"column:first_name"`
	LastName     string    `json:"last_name" gorm:"column:last_name"`
	Email        string    `json:"email" gorm:"column:email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	Role         string    `json:"role" gorm:"column:role"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// Token represents an API access token.
type Token struct {
	ID         string     `json:"id" gorm:"primaryKey;column:id"`
	UserID     string     `json:"user_id" gorm:"column:user_id"`
	Name       string     `json:"name" gorm:"column:name"`
	TokenHash  string     `json:"-" gorm:"column:token_hash"`
	Role       string     `json:"role" gorm:"column:role"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" gorm:"column:expires_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" gorm:"column:last_used_at"`
}

// CasbinRule represents a policy rule for RBAC.
type CasbinRule struct {
	ID    uint   `gorm:"primaryKey"`
	PType string `json:"ptype" gorm:"column:ptype"`
	V0    string `json:"v0" gorm:"column:v0"`
	V1    string `json:"v1" gorm:"column:v1"`
	V2    string `json:"v2" gorm:"column:v2"`
	V3    string `json:"v3" gorm:"column:v3"`
	V4    string `json:"v4" gorm:"column:v4"`
	V5    string `json:"v5" gorm:"column:v5"`
}

// Setting is a single key/value configuration row.
type Setting struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// ScheduledJob tracks the last run of a background job.
type ScheduledJob struct {
	Name           string    `gorm:"primaryKey;column:name"`
	LastRunAt      time.Time `gorm:"column:last_run_at"`
	LastDurationMs int64     `gorm:"column:last_duration_ms"`
	LastSuccess    int       `gorm:"column:last_success"`
	LastError      string    `gorm:"column:last_error"`
}

// EmailConfig holds configuration for email notifications.
type EmailConfig struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id"`
	Provider    string    `json:"provider" gorm:"column:provider"` // "smtp", "sendgrid", "gmail", "resend"
	Host        string    `json:"host,omitempty" gorm:"column:host"`
	Port        int       `json:"port,omitempty" gorm:"column:port"`
	Username    string    `json:"username,omitempty" gorm:"column:username"`
	Password    string    `json:"password,omitempty" gorm:"column:password"`
	FromAddress string    `json:"from_address" gorm:"column:from_address"`
	FromName    string    `json:"from_name" gorm:"column:from_name"`
	APIKey      string    `json:"api_key,omitempty" gorm:"column:api_key"`
	Encryption  string    `json:"encryption,omitempty" gorm:"column:encryption"` // "none", "ssl", "tls"
	Recipients  string    `json:"recipients,omitempty" gorm:"column:recipients"` // comma-separated digest recipients
	Enabled     bool      `json:"enabled" gorm:"column:enabled"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}
