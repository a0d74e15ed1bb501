package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported relational drivers for the account and transcript store.
const (
	DatabaseDriverSQLite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	CORSOrigins string

	DatabaseDriver string
	DatabaseURL    string
	RedisURL       string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	DataDir           string
	GradesFile        string
	FeaturesFile      string
	ActivityFile      string
	ClusterLabelsFile string
	UploadMaxSizeMB   int

	DashboardCacheTTL time.Duration

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIMaxTokens int
	OpenAITimeout   time.Duration

	ChatRateLimit  int
	ChatRateWindow time.Duration

	SeedEnabled            bool
	DefaultStudentPassword string
	AdminUsername          string
	AdminPassword          string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUPULSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduPulse API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("database.driver", DatabaseDriverSQLite)
	v.SetDefault("database.url", "edupulse.db")
	v.SetDefault("jwt.issuer", "edupulse")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.grades_file", "grades.csv")
	v.SetDefault("data.features_file", "student_features.csv")
	v.SetDefault("data.activity_file", "activity_log.csv")
	v.SetDefault("data.cluster_labels_file", "cluster_labels.json")
	v.SetDefault("upload.max_size_mb", 20)
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.timeout", "20s")
	v.SetDefault("chat.rate_limit", 20)
	v.SetDefault("chat.rate_window", "1m")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.student_password", "123456")
	v.SetDefault("seed.admin_username", "admin")

	ttl, err := parseDuration(v, "dashboard.cache_ttl", 5*time.Minute)
	if err != nil {
		return Config{}, err
	}
	tokenTTL, err := parseDuration(v, "jwt.ttl", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	aiTimeout, err := parseDuration(v, "openai.timeout", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	chatWindow, err := parseDuration(v, "chat.rate_window", time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		CORSOrigins:            v.GetString("cors.origins"),
		DatabaseDriver:         strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTIssuer:              v.GetString("jwt.issuer"),
		TokenTTL:               tokenTTL,
		DataDir:                v.GetString("data.dir"),
		GradesFile:             v.GetString("data.grades_file"),
		FeaturesFile:           v.GetString("data.features_file"),
		ActivityFile:           v.GetString("data.activity_file"),
		ClusterLabelsFile:      v.GetString("data.cluster_labels_file"),
		UploadMaxSizeMB:        v.GetInt("upload.max_size_mb"),
		DashboardCacheTTL:      ttl,
		OpenAIAPIKey:           v.GetString("openai.api_key"),
		OpenAIBaseURL:          v.GetString("openai.base_url"),
		OpenAIModel:            v.GetString("openai.model"),
		OpenAIMaxTokens:        v.GetInt("openai.max_tokens"),
		OpenAITimeout:          aiTimeout,
		ChatRateLimit:          v.GetInt("chat.rate_limit"),
		ChatRateWindow:         chatWindow,
		SeedEnabled:            v.GetBool("seed.enabled"),
		DefaultStudentPassword: v.GetString("seed.student_password"),
		AdminUsername:          v.GetString("seed.admin_username"),
		AdminPassword:          v.GetString("seed.admin_password"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.DatabaseDriver {
	case DatabaseDriverSQLite, DatabaseDriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.SeedEnabled && cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("admin password must be provided when seeding is enabled")
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 20
	}

	if cfg.ChatRateLimit <= 0 {
		cfg.ChatRateLimit = 20
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
