package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresEnabled  bool

	DataDir       string
	CSVOutputPath string
	ChromeBin     string

	ScrapeTimeoutSec int
	MaxRetries       int
	ComparableCount  int

	HTTPAddr string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bolig"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bolig123"),
		PostgresDB:       getEnv("POSTGRES_DB", "bolig_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),

		DataDir:       getEnv("DATA_DIR", "./data"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		ScrapeTimeoutSec: getEnvInt("SCRAPE_TIMEOUT_SEC", 60),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		ComparableCount:  getEnvInt("COMPARABLE_COUNT", 5),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
