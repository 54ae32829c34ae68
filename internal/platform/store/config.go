package store

import (
	"time"

	"vaani/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	CH   CHConfig
	NATS NATSConfig
	RDS  RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 6
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
}

// NATSConfig configures nats connectivity
type NATSConfig struct {
	Enabled bool
	URL     string
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled bool
	URL     string
}

// ConfigFromEnv reads SERVICE_* keys; a backend is enabled when its URL is set
func ConfigFromEnv(app string, c config.Conf) Config {
	svc := c.Prefix("SERVICE_")
	pgURL := svc.MayString("PGSQL_DBURL", "")
	chURL := svc.MayString("CH_DBURL", "")
	rdsURL := svc.MayString("REDIS_URL", "")
	natsURL := svc.MayString("NATS_URL", "")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:        pgURL != "",
			URL:            pgURL,
			MaxConns:       int32(svc.MayInt("PGSQL_MAX_CONNS", 0)),
			LogSQL:         svc.MayBool("PGSQL_LOG_SQL", false),
			SlowQueryMs:    svc.MayInt("PGSQL_SLOW_MS", 200),
			ConnectRetries: svc.MayInt("PGSQL_CONNECT_RETRIES", 6),
			PingTimeout:    svc.MayDuration("PGSQL_PING_TIMEOUT", 3*time.Second),
		},
		CH:   CHConfig{Enabled: chURL != "", URL: chURL},
		RDS:  RedisConfig{Enabled: rdsURL != "", URL: rdsURL},
		NATS: NATSConfig{Enabled: natsURL != "", URL: natsURL},
	}
}
