// Package config provides configuration management for the event catalog.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config.yaml file and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket used to archive raw provider feeds
//   - Cache: search response cache backend and TTL
//   - Log: Logging level and format
//   - Sync: scheduling interval and batch size of the reconciliation job
//   - Provider / Providers: the XML feeds to synchronize
//
// The primary provider is read from PROVIDER_NAME, PROVIDER_URL and PROVIDER_TIMEOUT_SECONDS.
// Additional providers are listed in config.yaml:
//
//	providers:
//	  - name: second_provider
//	    url: https://example.com/api/events
//	    timeout_seconds: 15
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
