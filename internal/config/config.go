package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreMongo  = "mongo"
	StoreConvex = "convex"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Convex   ConvexConfig   `mapstructure:"convex"`
	Clerk    ClerkConfig    `mapstructure:"clerk"`
	GenAI    GenAIConfig    `mapstructure:"genai"`
	Vapi     VapiConfig     `mapstructure:"vapi"`
	S3       S3Config       `mapstructure:"s3"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Resend   ResendConfig   `mapstructure:"resend"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StoreConfig selects the plan store gateway.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" or "convex"
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type ConvexConfig struct {
	URL string `mapstructure:"url"`
}

type ClerkConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
	JWTPublicKey  string `mapstructure:"jwt_public_key"` // PEM
}

type GenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

type VapiConfig struct {
	AssistantID string `mapstructure:"assistant_id"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	URLExpiry       time.Duration `mapstructure:"url_expiry"`
}

// Enabled reports whether plan export is configured.
func (c S3Config) Enabled() bool { return c.BucketName != "" }

type RedisConfig struct {
	Address     string        `mapstructure:"address"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DeliveryTTL time.Duration `mapstructure:"delivery_ttl"`
}

func (c RedisConfig) Enabled() bool { return c.Address != "" }

type ResendConfig struct {
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
}

func (c ResendConfig) Enabled() bool { return c.APIKey != "" }

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// envAliases maps keys to the additional environment variables that may set them, in priority order.
var envAliases = map[string][]string{
	"convex.url":           {"CONVEX_URL", "NEXT_PUBLIC_CONVEX_URL"},
	"clerk.webhook_secret": {"CLERK_WEBHOOK_SECRET"},
	"clerk.jwt_public_key": {"CLERK_JWT_KEY"},
	"genai.api_key":        {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"vapi.assistant_id":    {"NEXT_PUBLIC_VAPI_ASSISTANT_ID"},
	"resend.api_key":       {"RESEND_API_KEY"},
}

// LoadConfig reads configuration from path/config.yaml, a .env file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	// A missing .env is normal outside local development
	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys e.g. server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	for key, aliases := range envAliases {
		input := append([]string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err = v.BindEnv(append([]string{key}, input...)...); err != nil {
			return config, err
		}
	}

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return config, err
	}

	err = v.Unmarshal(&config)
	return config, err
}

// setDefaults registers every key in Config. AutomaticEnv only overrides keys viper already knows.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("store.driver", StoreMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "coresync")
	v.SetDefault("convex.url", "https://whimsical-greyhound-498.convex.cloud")
	v.SetDefault("clerk.webhook_secret", "")
	v.SetDefault("clerk.jwt_public_key", "")
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.model", "gemini-2.0-flash-001")
	v.SetDefault("genai.temperature", 0.4)
	v.SetDefault("vapi.assistant_id", "34caa6a5-e59f-4a2a-a0de-9642aabdfe48")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.url_expiry", "15m")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.delivery_ttl", "24h")
	v.SetDefault("resend.api_key", "")
	v.SetDefault("resend.from", "CoreSync <plans@coresync.app>")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}
