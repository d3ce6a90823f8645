package cache

// Config holds configuration for the response cache.
type Config struct {
	// Driver selects the store (memory, redis, none).
	Driver string `mapstructure:"driver" default:"memory"`
	// TTLSeconds is the lifetime of a cached entry.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"300"`
	// RedisAddr is the host:port of the redis server.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword authenticates against redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the redis database index.
	RedisDB int `mapstructure:"redis_db" default:"1"`
	// Prefix namespaces every key written by this service.
	Prefix string `mapstructure:"prefix" default:"event-catalog:"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNone   = "none"
)
