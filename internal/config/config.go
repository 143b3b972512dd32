package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	HoldTTL        time.Duration
	ApprovalWindow time.Duration
	SweepInterval  time.Duration
	RedisAddr      string
	RabbitURL      string
	MongoURI       string
	ArchiveDSN     string
	OTLPEndpoint   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:           envOr("PORT", "8080"),
		HoldTTL:        durationOr("HOLD_TTL", 5*time.Minute),
		ApprovalWindow: durationOr("APPROVAL_WINDOW", 30*time.Minute),
		SweepInterval:  durationOr("SWEEP_INTERVAL", time.Minute),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		MongoURI:       os.Getenv("MONGO_URI"),
		ArchiveDSN:     os.Getenv("ARCHIVE_DSN"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	d, _ := time.ParseDuration(os.Getenv(key))
	if d == 0 {
		return def
	}
	return d
}
