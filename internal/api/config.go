package api

import "time"

type Config struct {
	HTTPAddr         string        `envconfig:"TVRS_HTTP_ADDR" default:"0.0.0.0:8080"`
	DBDSN            string        `envconfig:"TVRS_DB_DSN" required:"true"`
	MetricsAddr      string        `envconfig:"TVRS_METRICS_ADDR" default:"0.0.0.0:9090"`
	LogLevel         string        `envconfig:"TVRS_LOG_LEVEL" default:"info"`
	ShutdownTimeout  time.Duration `envconfig:"TVRS_SHUTDOWN_TIMEOUT" default:"30s"`
	JWTSecret        string        `envconfig:"TVRS_JWT_SECRET" required:"true"`
	TokenTTL         time.Duration `envconfig:"TVRS_TOKEN_TTL" default:"8h"`
	DemeritThreshold int           `envconfig:"TVRS_DEMERIT_THRESHOLD" default:"12"`
	Migrate          bool          `envconfig:"TVRS_DB_MIGRATE" default:"true"`
}
