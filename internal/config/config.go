// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported property store backends.
const (
	StoreDatabase = "database"
	StoreMemory   = "memory"
	StoreDynamoDB = "dynamodb"
)

// Config holds application configuration
type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath     string `env:"DB_PATH" envDefault:"auctiontracker.db"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"auctiontracker"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"auctiontracker"`
	DBName     string `env:"DB_NAME" envDefault:"auctiontracker"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Property store
	StoreBackend            string `env:"STORE_BACKEND" envDefault:"database"`
	AWSRegion               string `env:"AWS_REGION" envDefault:"us-east-1"`
	DynamoDBEndpoint        string `env:"DYNAMODB_ENDPOINT"`
	DynamoDBPropertiesTable string `env:"DYNAMODB_PROPERTIES_TABLE" envDefault:"properties"`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"fallback-secret-key-for-dev-only"`
	JWTExpirationDur time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// AI analysis
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiTimeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"30s"`

	// Seeding
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@leilao.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"change-me-admin"`
	SeedDemoData  bool   `env:"SEED_DEMO_DATA" envDefault:"false"`
}

// Load loads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}

	switch c.StoreBackend {
	case StoreDatabase, StoreMemory, StoreDynamoDB:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (use %s, %s or %s)", c.StoreBackend, StoreDatabase, StoreMemory, StoreDynamoDB)
	}
	return nil
}

// PostgresDSN returns the key/value PostgreSQL connection string used by GORM.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// PostgresURL returns the URL form of the connection string used by migrate.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}
