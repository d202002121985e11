package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers for the calculation history.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type StorageConfig struct {
	Driver         string
	DB             DatabaseConfig
	SQLitePath     string
	MemoryCapacity int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ClientID      string
	TLS           bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// Enabled reports whether any broker was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Prefix          string
	UseSSL          bool
	URLTTL          time.Duration
}

// Enabled reports whether exports can be uploaded.
func (s S3Config) Enabled() bool { return s.Endpoint != "" }

type JWTConfig struct {
	Secret        string
	PublicKey     string
	PublicKeyFile string
	Issuer        string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type TelemetryConfig struct {
	OTLPEndpoint string
	SampleRatio  float64
}

type GRPCConfig struct {
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

type Config struct {
	GRPCPort        int
	HTTPPort        int
	ServiceName     string
	Environment     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	Storage   StorageConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	S3        S3Config
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
	GRPC      GRPCConfig
}

// LoadDotEnv seeds the environment from .env files. Variables already set
// win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		GRPCPort:        getEnvInt("GRPC_PORT", 9090),
		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		ServiceName:     getEnv("SERVICE_NAME", "loancalc"),
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
			DB: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnvInt("DB_PORT", 5432),
				User:     getEnv("DB_USER", "loancalc"),
				Password: getEnv("DB_PASSWORD", ""),
				Name:     getEnv("DB_NAME", "loancalc"),
				SSLMode:  getEnv("DB_SSLMODE", "require"),
				MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			},
			SQLitePath:     getEnv("SQLITE_PATH", "data/loancalc.db"),
			MemoryCapacity: getEnvInt("MEMORY_HISTORY_CAPACITY", 10_000),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS"),
			Topic:         getEnv("KAFKA_TOPIC", "loancalc.events"),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "loancalc"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "loancalc-exports"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Prefix:          getEnv("S3_PREFIX", ""),
			UseSSL:          getEnvBool("S3_USE_SSL", true),
			URLTTL:          getEnvDuration("S3_URL_TTL", 15*time.Minute),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "homefinder"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 20),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRatio:  getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
		GRPC: GRPCConfig{
			TLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			TLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
			Reflection:  getEnvBool("GRPC_REFLECTION", false),
		},
	}
}

// Validate reports every missing setting for the selected drivers at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DB.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required for the postgres storage driver"))
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not one of memory, postgres, sqlite", c.Storage.Driver))
	}

	if c.JWT.Secret == "" && c.JWT.PublicKey == "" && c.JWT.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_PUBLIC_KEY, JWT_PUBLIC_KEY_FILE or JWT_SECRET is required"))
	}
	if c.S3.Enabled() && (c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_ENDPOINT is set"))
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}

	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
