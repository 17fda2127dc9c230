package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CleanupWorkers sizes the avatar cleanup worker pool.
	CleanupWorkers int `env:"CLEANUP_WORKERS, default=4"`

	JWT        JWTConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Throttle   ThrottleConfig
}

// JWTConfig holds the process-wide signing configuration, established once
// at startup and never mutated.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	Algorithm  string        `env:"JWT_ALGORITHM,     default=HS256"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_api"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// CloudinaryConfig holds credentials for the avatar image host.
type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER, default=avatars"`
}

// ThrottleConfig controls the failed-login guard.
type ThrottleConfig struct {
	Window      time.Duration `env:"LOGIN_THROTTLE_WINDOW,       default=15m"`
	MaxFailures int           `env:"LOGIN_THROTTLE_MAX_FAILURES, default=5"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
