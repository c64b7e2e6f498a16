package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	Storage     StorageConfig
	DB          DBConfig
	Redis       RedisConfig
	Submissions SubmissionsConfig
	Nearby      NearbyConfig
	PubSub      PubSubConfig
	Metrics     MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesPostgres() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Nearby.DefaultRadiusKm <= 0 {
		return nil, fmt.Errorf("%s must be positive", EnvNearbyDefaultRadius)
	}
	if cfg.Nearby.MaxRadiusKm < cfg.Nearby.DefaultRadiusKm {
		return nil, fmt.Errorf("%s must be >= %s", EnvNearbyMaxRadius, EnvNearbyDefaultRadius)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"SKATEPARKS_APP_ENV" required:"true"`
	Port           string   `envconfig:"SKATEPARKS_APP_PORT" default:"5000"`
	LogLevel       string   `envconfig:"SKATEPARKS_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"SKATEPARKS_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"SKATEPARKS_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"SKATEPARKS_ALLOWED_ORIGINS" default:"http://localhost:5000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the record store implementation.
type StorageConfig struct {
	Driver      string `envconfig:"SKATEPARKS_STORAGE_DRIVER" default:"postgres"`
	SeedOnBoot  bool   `envconfig:"SKATEPARKS_SEED_ON_BOOT" default:"true"`
	AutoMigrate bool   `envconfig:"SKATEPARKS_AUTO_MIGRATE" default:"false"`
}

func (s StorageConfig) UsesPostgres() bool {
	return strings.EqualFold(s.Driver, StorageDriverPostgres)
}

func (s StorageConfig) UsesSQLite() bool {
	return strings.EqualFold(s.Driver, StorageDriverSQLite)
}

func (s StorageConfig) UsesMemory() bool {
	return strings.EqualFold(s.Driver, StorageDriverMemory)
}

func (s StorageConfig) validate() error {
	if s.UsesPostgres() || s.UsesSQLite() || s.UsesMemory() {
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s (got %q)",
		EnvStorageDriver, StorageDriverMemory, StorageDriverPostgres, StorageDriverSQLite, s.Driver)
}

type DBConfig struct {
	DSN        string `envconfig:"SKATEPARKS_DB_DSN"`
	SQLitePath string `envconfig:"SKATEPARKS_SQLITE_PATH" default:"skateparks.db"`

	LegacyHost     string `envconfig:"SKATEPARKS_DB_HOST"`
	LegacyPort     int    `envconfig:"SKATEPARKS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SKATEPARKS_DB_USER"`
	LegacyPassword string `envconfig:"SKATEPARKS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SKATEPARKS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SKATEPARKS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SKATEPARKS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SKATEPARKS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SKATEPARKS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKATEPARKS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address disables Redis-backed features.
type RedisConfig struct {
	URL          string        `envconfig:"SKATEPARKS_REDIS_URL"`
	Address      string        `envconfig:"SKATEPARKS_REDIS_ADDR"`
	Password     string        `envconfig:"SKATEPARKS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKATEPARKS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKATEPARKS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKATEPARKS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKATEPARKS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKATEPARKS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKATEPARKS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SubmissionsConfig struct {
	RateLimitWindow  time.Duration `envconfig:"SKATEPARKS_SUBMISSION_RATE_LIMIT_WINDOW" default:"1h"`
	RateLimitPerIP   int           `envconfig:"SKATEPARKS_SUBMISSION_RATE_LIMIT_PER_IP" default:"5"`
	FallbackImageURL string        `envconfig:"SKATEPARKS_SUBMISSION_FALLBACK_IMAGE_URL" default:"https://images.unsplash.com/photo-1621544402532-78c290378588?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=500&q=80"`
}

type NearbyConfig struct {
	DefaultRadiusKm float64 `envconfig:"SKATEPARKS_NEARBY_DEFAULT_RADIUS_KM" default:"50"`
	MaxRadiusKm     float64 `envconfig:"SKATEPARKS_NEARBY_MAX_RADIUS_KM" default:"20100"`
}

// PubSubConfig is optional; an empty project or topic disables event publishing.
type PubSubConfig struct {
	ProjectID       string `envconfig:"SKATEPARKS_GCP_PROJECT_ID"`
	ModerationTopic string `envconfig:"SKATEPARKS_PUBSUB_MODERATION_TOPIC"`
}

func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ProjectID) != "" && strings.TrimSpace(p.ModerationTopic) != ""
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"SKATEPARKS_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"SKATEPARKS_METRICS_PATH" default:"/metrics"`
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
