package config

import (
	"reflect"
	"strings"

	"event-catalog/core/cache"
	"event-catalog/core/database"
	"event-catalog/core/logger"
	"event-catalog/core/server"
	"event-catalog/core/storage"
	"event-catalog/feature/sync/provider"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the feed archive (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Cache holds configuration for the search response cache.
	Cache cache.Config `mapstructure:"cache"`
	// Sync holds configuration for the scheduled provider synchronization.
	Sync SyncConfig `mapstructure:"sync"`
	// Provider is the primary provider, configured through environment variables.
	Provider provider.Config `mapstructure:"provider"`
	// Providers lists additional providers, usually declared in config.yaml.
	Providers []provider.Config `mapstructure:"providers"`
}

// SyncConfig holds configuration for the sync job.
type SyncConfig struct {
	// IntervalSeconds is the delay between two scheduled sync runs.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"3600"`
	// BatchSize is the number of events committed per transaction.
	BatchSize int `mapstructure:"batch_size" default:"100"`
}

// AllProviders returns the primary provider (when it has a URL) followed by
// the additional providers, skipping entries without a name or URL.
func (c *Config) AllProviders() []provider.Config {
	all := make([]provider.Config, 0, len(c.Providers)+1)
	seen := make(map[string]struct{})
	for _, p := range append([]provider.Config{c.Provider}, c.Providers...) {
		if p.Name == "" || p.URL == "" {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		all = append(all, p)
	}
	return all
}

// LoadConfig loads configuration from environment variables, an optional
// config.yaml and an optional .env file found in path.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Lists come from the config file only
		if field.Type.Kind() == reflect.Slice {
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
