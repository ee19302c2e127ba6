// Package config loads the service configuration from a YAML file with
// environment overrides for deployment secrets.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the full service configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	API      APIConfig      `yaml:"api"`
	Registry RegistryConfig `yaml:"registry"`
	Payment  PaymentConfig  `yaml:"payment"`
	Backup   BackupConfig   `yaml:"backup"`
}

// StorageConfig locates the metadata database.
type StorageConfig struct {
	Database string `yaml:"database"`
}

// APIConfig holds the HTTP listener settings.
type APIConfig struct {
	Port string `yaml:"port"`
	Key  string `yaml:"key"`
}

// RegistryConfig holds the registry core knobs.
type RegistryConfig struct {
	RegistrationFee int64  `yaml:"registration_fee"`
	FeeCollector    string `yaml:"fee_collector"`
	MaxFileSize     int64  `yaml:"max_file_size"`
	DefaultMaxBytes int64  `yaml:"default_max_bytes"`
	DefaultMaxFiles int64  `yaml:"default_max_files"`
	CacheSize       int    `yaml:"cache_size"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// CacheTTL returns the read-cache TTL as a duration.
func (r RegistryConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

// PaymentConfig points at the external fee ledger.
type PaymentConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the ledger client timeout as a duration.
func (p PaymentConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// BackupConfig holds the S3-compatible backup store settings.
type BackupConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// LoadConfig reads the configuration file named by CONFIG_PATH, falling
// back to ./config.yaml and then to built-in defaults. The API key may
// always be supplied through REGISTRY_API_KEY instead of the file.
func LoadConfig() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Failed to read config file, using defaults: %v", err)
	} else if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
		config = defaultConfig()
	}

	// Override API key from environment variable if set
	if envAPIKey := os.Getenv("REGISTRY_API_KEY"); envAPIKey != "" {
		config.API.Key = envAPIKey
	}
	if config.API.Key == "" {
		log.Fatal("API key must be set via REGISTRY_API_KEY environment variable or config file")
	}

	// Log only a hash prefix to avoid exposing the key
	hasher := sha256.New()
	hasher.Write([]byte(config.API.Key))
	hashBytes := hasher.Sum(nil)[:8]
	log.Printf("API Key configured (hash prefix: %s...)", hex.EncodeToString(hashBytes))

	return config
}

func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Database: "./registry.db",
		},
		API: APIConfig{
			Port: "8080",
		},
		Registry: RegistryConfig{
			RegistrationFee: 0,
			MaxFileSize:     100 * 1024 * 1024,
			DefaultMaxBytes: 10 * 1024 * 1024 * 1024,
			DefaultMaxFiles: 1000,
			CacheSize:       1024,
			CacheTTLSeconds: 300,
		},
		Payment: PaymentConfig{
			TimeoutSeconds: 10,
		},
	}
}
