package cardvault

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/ellavondegurechaff/cardvault/cardvault/database"
)

// LoadConfig reads the TOML config file, then applies CARDVAULT_*
// environment variable overrides on top.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	DB     database.DBConfig `toml:"db"`
	Market MarketConfig      `toml:"market"`
	Spaces SpacesConfig      `toml:"spaces"`
	Mongo  MongoConfig       `toml:"mongo"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"CARDVAULT_LOG_LEVEL"`
	Format    string     `toml:"format" env:"CARDVAULT_LOG_FORMAT"`
	AddSource bool       `toml:"add_source"`
}

type MarketConfig struct {
	Admin          string `toml:"admin" env:"CARDVAULT_MARKET_ADMIN"`
	Treasury       string `toml:"treasury" env:"CARDVAULT_MARKET_TREASURY"`
	FeeBasisPoints int64  `toml:"fee_basis_points" env:"CARDVAULT_MARKET_FEE_BPS"`
	Enabled        bool   `toml:"enabled" env:"CARDVAULT_MARKET_ENABLED"`
}

type SpacesConfig struct {
	Key      string `toml:"key" env:"CARDVAULT_SPACES_KEY"`
	Secret   string `toml:"secret" env:"CARDVAULT_SPACES_SECRET"`
	Region   string `toml:"region" env:"CARDVAULT_SPACES_REGION"`
	Bucket   string `toml:"bucket" env:"CARDVAULT_SPACES_BUCKET"`
	CardRoot string `toml:"cardroot" env:"CARDVAULT_SPACES_CARDROOT"`
}

// MongoConfig points at the legacy deployment and is only used by the
// migrate command.
type MongoConfig struct {
	URI      string `toml:"uri" env:"CARDVAULT_MONGO_URI"`
	Database string `toml:"database" env:"CARDVAULT_MONGO_DATABASE"`
}
