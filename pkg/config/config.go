package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Gemini       GeminiConfig
	Narrative    NarrativeConfig
	Compare      CompareConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CAPEX_APP_ENV" required:"true"`
	Port         string `envconfig:"CAPEX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAPEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAPEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAPEX_DB_DSN"`
	Driver string `envconfig:"CAPEX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAPEX_DB_HOST"`
	LegacyPort     int    `envconfig:"CAPEX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAPEX_DB_USER"`
	LegacyPassword string `envconfig:"CAPEX_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAPEX_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAPEX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAPEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAPEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAPEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAPEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAPEX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAPEX_REDIS_ADDR"`
	Password     string        `envconfig:"CAPEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAPEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAPEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAPEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAPEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAPEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAPEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"CAPEX_GEMINI_API_KEY"`
	Model   string        `envconfig:"CAPEX_GEMINI_MODEL" default:"gemini-2.5-flash"`
	Timeout time.Duration `envconfig:"CAPEX_GEMINI_TIMEOUT" default:"60s"`
}

type NarrativeConfig struct {
	CacheTTL time.Duration `envconfig:"CAPEX_NARRATIVE_CACHE_TTL" default:"720h"`
}

// CompareConfig carries the business thresholds used by the diff engine.
// Defaults come from the budgeting team; they are configuration, not math.
type CompareConfig struct {
	QtyTolerance     float64 `envconfig:"CAPEX_COMPARE_QTY_TOLERANCE" default:"0.001"`
	PriceTolerance   float64 `envconfig:"CAPEX_COMPARE_PRICE_TOLERANCE" default:"0.01"`
	VATRateTolerance float64 `envconfig:"CAPEX_COMPARE_VAT_TOLERANCE" default:"0.1"`
	VATAnomalyMax    float64 `envconfig:"CAPEX_COMPARE_VAT_ANOMALY_MAX" default:"25"`
	TopItems         int     `envconfig:"CAPEX_COMPARE_TOP_ITEMS" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAPEX_AUTO_MIGRATE" default:"false"`
	SeedLibrary bool `envconfig:"CAPEX_SEED_LIBRARY" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
