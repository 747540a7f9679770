package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
	Gateway GatewayConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,    default=realty"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// StorageConfig points at the S3-compatible bucket holding listing images.
// Endpoint is optional; set it for MinIO or another non-AWS store.
type StorageConfig struct {
	Endpoint      string `env:"S3_ENDPOINT"`
	Region        string `env:"S3_REGION,          default=us-east-1"`
	Bucket        string `env:"S3_BUCKET,          default=property-images"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL, default=http://localhost:9000/property-images"`
}

type GatewayConfig struct {
	Port       string `env:"GATEWAY_PORT, default=3000"`
	BackendURL string `env:"BACKEND_URL,  default=http://localhost:8080"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// Production reports whether the service runs with production hardening
// (Secure cookies, no stack detail in error responses).
func (c *Config) Production() bool {
	return c.Env == "production"
}
