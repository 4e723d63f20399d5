package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	App      AppConfig      `json:"app"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// AppConfig carries back-office thresholds. Zero values are replaced with
// defaults at load time so a minimal config file stays valid.
type AppConfig struct {
	LogLevel              string `json:"log_level"`
	NearExpiryDays        int    `json:"near_expiry_days"`
	LowStockThreshold     int    `json:"low_stock_threshold"`
	ActorLockTimeoutSecs  int    `json:"actor_lock_timeout_seconds"`
	AlertScanIntervalSecs int    `json:"alert_scan_interval_seconds"`
}

func (c *AppConfig) ActorLockTimeout() time.Duration {
	return time.Duration(c.ActorLockTimeoutSecs) * time.Second
}

func (c *AppConfig) AlertScanInterval() time.Duration {
	return time.Duration(c.AlertScanIntervalSecs) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config.App)

	return &config, nil
}

func applyDefaults(app *AppConfig) {
	if app.NearExpiryDays <= 0 {
		app.NearExpiryDays = 30
	}
	if app.LowStockThreshold <= 0 {
		app.LowStockThreshold = 10
	}
	if app.ActorLockTimeoutSecs <= 0 {
		app.ActorLockTimeoutSecs = 3
	}
	if app.AlertScanIntervalSecs <= 0 {
		app.AlertScanIntervalSecs = 300
	}
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
