package config

import "time"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Postgres
	PostgresDSN          string        `env:"POSTGRES_DSN,required,notEmpty"`
	PostgresMaxOpenConns int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	PostgresMaxIdleConns int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"10"`
	PostgresConnLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnectMaxRetries    uint64        `env:"CONNECT_MAX_RETRIES" envDefault:"5"`

	// Redis geo cache, disabled when RedisAddr is empty
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Geolocation
	GeoEnabled  bool          `env:"GEO_ENABLED" envDefault:"true"`
	GeoEndpoint string        `env:"GEO_ENDPOINT" envDefault:"https://ipapi.co/%s/json/"`
	GeoTimeout  time.Duration `env:"GEO_TIMEOUT" envDefault:"2s"`
	GeoCacheTTL time.Duration `env:"GEO_CACHE_TTL" envDefault:"24h"`

	// ClickHouse page-visit sink, disabled when ClickHouseAddr is empty
	ClickHouseAddr     string `env:"CLICKHOUSE_ADDR"`
	ClickHouseDatabase string `env:"CLICKHOUSE_DATABASE" envDefault:"default"`
	ClickHouseUsername string `env:"CLICKHOUSE_USERNAME"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`

	// Dashboard
	DashboardJWTSecret string `env:"DASHBOARD_JWT_SECRET,required,notEmpty"`

	// Jobs
	DailyRollupCron string        `env:"DAILY_ROLLUP_CRON" envDefault:"5 0 * * *"`
	ViewSweepCron   string        `env:"VIEW_SWEEP_CRON" envDefault:"@every 1m"`
	ViewIdleTimeout time.Duration `env:"VIEW_IDLE_TIMEOUT" envDefault:"30m"`
	TrackingTimeout time.Duration `env:"TRACKING_TASK_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Reveal
	RevealStaggerMs int `env:"REVEAL_DEFAULT_STAGGER_MS" envDefault:"80"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}
