// Package config reads simulation and server settings from the
// environment, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tifye/shopsim/economy"
	"github.com/tifye/shopsim/rng"
)

const (
	RNGPCG = "pcg"
	RNGLCG = "lcg"
)

type Config struct {
	Params  economy.Params
	MaxDays int

	RNG           string
	Seed1         uint64
	Seed2         uint64
	LCGMultiplier uint64
	LCGIncrement  uint64
	LCGModulus    uint64

	DecisionTimeout time.Duration
	DecisionRate    float64

	Port          int
	DBDriver      string
	DBDSN         string
	JWTSigningKey string
	OTPSecret     string
}

// New returns a viper instance with every default set. Keys can be
// overridden by SHOPSIM_ prefixed environment variables.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("shopsim")
	v.AutomaticEnv()

	d := economy.DefaultParams()
	v.SetDefault("initial_account", d.InitialAccount)
	v.SetDefault("initial_basic_store", d.InitialBasicStore)
	v.SetDefault("initial_shop_store", d.InitialShopStore)
	v.SetDefault("transfer_rate", d.TransferRate)
	v.SetDefault("offer_base_volume", d.OfferBaseVolume)
	v.SetDefault("offer_price_base_volume", d.OfferPriceBaseVolume)
	v.SetDefault("offer_base_price", d.OfferBasePrice)
	v.SetDefault("max_demand", d.MaxDemand)
	v.SetDefault("mean_demand_price", d.MeanDemandPrice)
	v.SetDefault("rent", d.Rent)
	v.SetDefault("wages", d.Wages)
	v.SetDefault("sell_after_transfer", d.SellAfterTransfer)
	v.SetDefault("max_days", 0)

	v.SetDefault("rng", RNGPCG)
	v.SetDefault("seed1", 0)
	v.SetDefault("seed2", 0)
	v.SetDefault("lcg_multiplier", 1103515245)
	v.SetDefault("lcg_increment", 12345)
	v.SetDefault("lcg_modulus", 1<<31)

	v.SetDefault("decision_timeout", 0)
	v.SetDefault("decision_rate", 5)

	v.SetDefault("port", 6565)
	v.SetDefault("db_driver", "")
	v.SetDefault("db_dsn", "./data/ledger.db")
	v.SetDefault("jwt_signing_key", "")
	v.SetDefault("otp_secret", "")
	return v
}

// LoadEnvFile loads .env into the process environment. A missing
// file is not an error.
func LoadEnvFile(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ReadFile merges a yaml, toml or json config file into v.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %s", err)
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Params: economy.Params{
			InitialAccount:       v.GetFloat64("initial_account"),
			InitialBasicStore:    v.GetFloat64("initial_basic_store"),
			InitialShopStore:     v.GetFloat64("initial_shop_store"),
			TransferRate:         v.GetFloat64("transfer_rate"),
			OfferBaseVolume:      v.GetFloat64("offer_base_volume"),
			OfferPriceBaseVolume: v.GetFloat64("offer_price_base_volume"),
			OfferBasePrice:       v.GetFloat64("offer_base_price"),
			MaxDemand:            v.GetFloat64("max_demand"),
			MeanDemandPrice:      v.GetFloat64("mean_demand_price"),
			Rent:                 v.GetFloat64("rent"),
			Wages:                v.GetFloat64("wages"),
			SellAfterTransfer:    v.GetBool("sell_after_transfer"),
		},
		MaxDays: v.GetInt("max_days"),

		RNG:           v.GetString("rng"),
		Seed1:         v.GetUint64("seed1"),
		Seed2:         v.GetUint64("seed2"),
		LCGMultiplier: v.GetUint64("lcg_multiplier"),
		LCGIncrement:  v.GetUint64("lcg_increment"),
		LCGModulus:    v.GetUint64("lcg_modulus"),

		DecisionTimeout: v.GetDuration("decision_timeout"),
		DecisionRate:    v.GetFloat64("decision_rate"),

		Port:          v.GetInt("port"),
		DBDriver:      v.GetString("db_driver"),
		DBDSN:         v.GetString("db_dsn"),
		JWTSigningKey: v.GetString("jwt_signing_key"),
		OTPSecret:     v.GetString("otp_secret"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.MaxDays < 0 {
		return fmt.Errorf("max_days must not be negative")
	}
	switch c.RNG {
	case RNGPCG:
	case RNGLCG:
		if c.LCGModulus == 0 {
			return fmt.Errorf("lcg_modulus must be positive")
		}
	default:
		return fmt.Errorf("unknown rng %q", c.RNG)
	}
	if c.DecisionTimeout < 0 {
		return fmt.Errorf("decision_timeout must not be negative")
	}
	if c.DecisionRate <= 0 {
		return fmt.Errorf("decision_rate must be positive")
	}
	switch c.DBDriver {
	case "", "duckdb", "sqlite":
	default:
		return fmt.Errorf("unknown db_driver %q", c.DBDriver)
	}
	if c.OTPSecret != "" && c.JWTSigningKey == "" {
		return fmt.Errorf("otp_secret requires jwt_signing_key")
	}
	return nil
}

// NewSource builds the configured random source. Zero seeds are
// replaced with random ones so runs differ unless seeded.
func (c Config) NewSource() (*rng.Source, error) {
	if c.RNG == RNGLCG {
		return rng.NewLCG(c.LCGMultiplier, c.LCGIncrement, c.LCGModulus, c.Seed1)
	}
	if c.Seed1 == 0 && c.Seed2 == 0 {
		return rng.NewRandom(), nil
	}
	return rng.New(c.Seed1, c.Seed2), nil
}
