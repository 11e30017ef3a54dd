package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Folder deletion policies. The store refuses to delete a non-empty folder
// under "reject"; "cascade" removes the whole subtree and its notes.
const (
	DeletePolicyReject  = "reject"
	DeletePolicyCascade = "cascade"
)

type Config struct {
	AppEnv string `mapstructure:"APP_ENV"`

	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	ServerPort string `mapstructure:"SERVER_PORT"`

	JWTSecretKey      string        `mapstructure:"JWT_SECRET_KEY"`
	JWTIssuer         string        `mapstructure:"JWT_ISSUER"`
	JWTExpirationTime time.Duration `mapstructure:"JWT_EXPIRATION_TIME"`

	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	PageSize           int           `mapstructure:"PAGE_SIZE"`
	FolderDeletePolicy string        `mapstructure:"FOLDER_DELETE_POLICY"`
	LookupTimeout      time.Duration `mapstructure:"LOOKUP_TIMEOUT"`
	TxMaxRetries       int           `mapstructure:"TX_MAX_RETRIES"`

	JaegerEndpoint string `mapstructure:"JAEGER_ENDPOINT"`
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	configureViper(v)
	if err := readConfiguration(v); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.FolderDeletePolicy != DeletePolicyReject && cfg.FolderDeletePolicy != DeletePolicyCascade {
		return nil, fmt.Errorf("invalid FOLDER_DELETE_POLICY %q: must be %q or %q",
			cfg.FolderDeletePolicy, DeletePolicyReject, DeletePolicyCascade)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 2 * time.Second
	}
	if cfg.TxMaxRetries <= 0 {
		cfg.TxMaxRetries = 3
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")

	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "root")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "socializenotion")
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("JWT_SECRET_KEY", "your_fallback_secret_key_change_in_production")
	v.SetDefault("JWT_ISSUER", "socializenotion")
	v.SetDefault("JWT_EXPIRATION_TIME", "24h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", "0")

	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("FOLDER_DELETE_POLICY", DeletePolicyReject)
	v.SetDefault("LOOKUP_TIMEOUT", "2s")
	v.SetDefault("TX_MAX_RETRIES", 3)

	v.SetDefault("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
}

func configureViper(v *viper.Viper) {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func readConfiguration(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Warning: .env file not found, using defaults and system env")
			return nil
		}
		return fmt.Errorf("config file error: %w", err)
	}
	fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	return nil
}
