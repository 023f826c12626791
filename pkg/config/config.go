package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongodb"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	AccessKey []byte

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	KafkaBrokers []string
}

// Load reads .env (when present) and the process environment once.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "ezwallet"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		AccessKey: []byte(os.Getenv("ACCESS_KEY")),

		StoreDriver:   strings.ToLower(EnvDefault("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: EnvDefault("MONGO_DATABASE", "ezwallet"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

// MustLoad is Load plus the startup checks every server needs.
func MustLoad() Config {
	cfg := Load()

	MustNonEmptyBytes(cfg.AccessKey, "ACCESS_KEY")
	switch cfg.StoreDriver {
	case DriverPostgres, DriverSQLite:
		MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	case DriverMongo:
		MustNonEmpty(cfg.MongoURI, "MONGO_URI")
	default:
		log.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
