package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Migration run tuning
	BatchSize        int
	BatchDelay       time.Duration
	BalanceTolerance decimal.Decimal
	ReportDir        string
	MigratedBy       string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BATCH_SIZE", 25)
	viper.SetDefault("BATCH_DELAY_MS", 0)
	viper.SetDefault("BALANCE_TOLERANCE", "1")
	viper.SetDefault("REPORT_DIR", ".")
	viper.SetDefault("MIGRATED_BY", "loan-migration")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.BatchSize = viper.GetInt("BATCH_SIZE")
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
		log.Printf("Warning: Invalid value for BATCH_SIZE. Defaulting to %d.\n", cfg.BatchSize)
	}

	cfg.BatchDelay = time.Duration(viper.GetInt("BATCH_DELAY_MS")) * time.Millisecond
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
		log.Println("Warning: Negative value for BATCH_DELAY_MS. Defaulting to 0.")
	}

	toleranceStr := viper.GetString("BALANCE_TOLERANCE")
	tolerance, err := decimal.NewFromString(toleranceStr)
	if err != nil || tolerance.IsNegative() {
		tolerance = decimal.NewFromInt(1)
		log.Printf("Warning: Invalid value for BALANCE_TOLERANCE ('%s'). Defaulting to %s.\n", toleranceStr, tolerance.String())
	}
	cfg.BalanceTolerance = tolerance

	cfg.ReportDir = viper.GetString("REPORT_DIR")
	if cfg.ReportDir == "" {
		cfg.ReportDir = "."
	}

	cfg.MigratedBy = viper.GetString("MIGRATED_BY")
	if cfg.MigratedBy == "" {
		cfg.MigratedBy = "loan-migration"
		log.Printf("Warning: MIGRATED_BY not set. Defaulting to %s.\n", cfg.MigratedBy)
	}

	return cfg, nil
}
