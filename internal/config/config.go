package config

import "os"

type Config struct {
	Port        string
	APIBase     string
	DBDriver    string
	DBDSN       string
	AutoMigrate bool
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	base := os.Getenv("HOTELFM_API_BASE")
	if base == "" {
		base = "http://localhost:9000/api"
	}
	driver := os.Getenv("HOTELFM_DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	dsn := os.Getenv("HOTELFM_DB_DSN")
	if dsn == "" {
		dsn = "hotelfm.db"
	}
	auto := os.Getenv("HOTELFM_AUTO_MIGRATE")
	return Config{
		Port:        port,
		APIBase:     base,
		DBDriver:    driver,
		DBDSN:       dsn,
		AutoMigrate: auto == "1" || auto == "true" || auto == "yes",
	}
}
