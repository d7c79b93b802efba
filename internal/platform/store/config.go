package store

import (
	"time"

	"dialdesk/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero picks the default
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// ClientName is the role reported to the server, ClientTag the product name
	ClientName string
	ClientTag  string
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* under root
// postgres is always on, clickhouse only when SERVICE_CLICKHOUSE_ENABLED is set
func FromConfig(root config.Conf, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	cfg := Config{
		PG: PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
	}
	if ch.MayBool("ENABLED", false) {
		cfg.CH = CHConfig{
			Enabled:    true,
			URL:        ch.MustString("DBURL"),
			ClientName: role,
			ClientTag:  "dialdesk",
		}
	}
	return cfg
}
