package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/models"
)

type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	DatabaseURL  string
	SessionTTL   time.Duration
	KafkaAddress string
	ES_URL       string
	ES_USER      string
	ES_PASSWORD  string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Port:         getenvDefault("PORT", "8080"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		DBPath:       getenvDefault("DB_PATH", "shopsoft.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SessionTTL:   parseTTL(os.Getenv("SESSION_TTL")),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:       os.Getenv("ES_URL"),
		ES_USER:      os.Getenv("ES_USER"),
		ES_PASSWORD:  os.Getenv("ES_PASSWORD"),
	}

	return config, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseTTL(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Notice: invalid SESSION_TTL %q: %v. Using default", raw, err)
		return 0
	}
	return d
}

// InitDB opens the store and migrates all tables. The sqlite file is
// the default; a DATABASE_URL switches to postgres.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dialector := sqlite.Open(cfg.DBPath)
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Item{},
		&models.ItemImage{},
		&models.Like{},
		&models.CartItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Message{},
	)
}
