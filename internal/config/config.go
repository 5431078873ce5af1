package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Pinata   *PinataConfig   `mapstructure:"pinata"`
	Storage  *StorageConfig  `mapstructure:"storage"`
	Chain    *ChainConfig    `mapstructure:"chain"`
	Magic    *MagicConfig    `mapstructure:"magic"`
	Worker   *WorkerConfig   `mapstructure:"worker"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type PinataConfig struct {
	JWT        string `mapstructure:"jwt"`
	APIKey     string `mapstructure:"api_key"`
	APISecret  string `mapstructure:"api_secret"`
	GatewayURL string `mapstructure:"gateway_url"`
}

// StorageConfig selects the content publisher backend ("pinata" or "s3").
type StorageConfig struct {
	Provider        string `mapstructure:"provider"`
	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

type ChainConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	RPCURL          string `mapstructure:"rpc_url"`
	ChainID         int64  `mapstructure:"chain_id"`
	ContractAddress string `mapstructure:"contract_address"`
	PrivateKey      string `mapstructure:"private_key"`
}

type MagicConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type WorkerConfig struct {
	MintBackfillEnabled  bool `mapstructure:"mint_backfill_enabled"`
	MintBackfillInterval int  `mapstructure:"mint_backfill_interval_seconds"`
	MintBackfillBatch    int  `mapstructure:"mint_backfill_batch"`
}

func Load(configPath string) (*AppConfig, error) {
	conf := &AppConfig{}

	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	// Secrets always come from the environment, never the YAML file.
	bindEnvs := map[string]string{
		"api.jwt_signing_key":       "JWT_SIGNING_KEY",
		"postgres.password":         "POSTGRES_PASSWORD",
		"pinata.jwt":                "PINATA_JWT",
		"pinata.api_key":            "PINATA_API_KEY",
		"pinata.api_secret":         "PINATA_API_SECRET",
		"storage.access_key_id":     "STORAGE_ACCESS_KEY_ID",
		"storage.access_key_secret": "STORAGE_ACCESS_KEY_SECRET",
		"chain.rpc_url":             "RPC_URL",
		"chain.contract_address":    "CONTRACT_ADDRESS",
		"chain.private_key":         "ADMIN_PRIVATE_KEY",
		"magic.secret_key":          "MAGIC_SECRET_KEY",
	}
	for key, env := range bindEnvs {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("viper.BindEnv(%v) -> %w", key, err)
		}
	}

	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name))

		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
		}
	})
	viper.WatchConfig()

	return conf, nil
}
