package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	GRPCServer GRPCServer
	Database   Database
	Prometheus Prometheus
}

type HTTPServer struct {
	Address         string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

type GRPCServer struct {
	Address string
	Port    int
}

type Database struct {
	URL            string
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	PoolSize       int
	AcquireTimeout time.Duration
	AutoMigrate    bool
}

type Prometheus struct {
	Address string
	Port    int
}

// DSN returns the connection target. An explicit URL wins over the
// individual connection fields.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(d.Username, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.DbName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func MustLoad() *Config {
	cfg, err := Load(viper.New(), "./config")
	if err != nil {
		log.Printf("Error loading config: %s", err)
		os.Exit(1)
	}
	return cfg
}

// Load reads .env, an optional config.yaml under configPath and the
// environment, in increasing order of precedence.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// database.url is read from DATABASE_URL, database.pool_size from DATABASE_POOL_SIZE.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_timeout", 10*time.Second)
	v.SetDefault("http_server.write_timeout", 10*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)
	v.SetDefault("http_server.allowed_origins", []string{"*"})

	v.SetDefault("grpc_server.address", "0.0.0.0")
	v.SetDefault("grpc_server.port", 50054)

	v.SetDefault("database.url", "")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.host", "content-db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "contentservice")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.acquire_timeout", 5*time.Second)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9104)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:         v.GetString("http_server.address"),
			Port:            v.GetInt("http_server.port"),
			ReadTimeout:     v.GetDuration("http_server.read_timeout"),
			WriteTimeout:    v.GetDuration("http_server.write_timeout"),
			ShutdownTimeout: v.GetDuration("http_server.shutdown_timeout"),
			AllowedOrigins:  v.GetStringSlice("http_server.allowed_origins"),
		},
		GRPCServer: GRPCServer{
			Address: v.GetString("grpc_server.address"),
			Port:    v.GetInt("grpc_server.port"),
		},
		Database: Database{
			URL:            v.GetString("database.url"),
			Username:       v.GetString("database.username"),
			Password:       v.GetString("database.password"),
			Host:           v.GetString("database.host"),
			Port:           v.GetString("database.port"),
			DbName:         v.GetString("database.db_name"),
			PoolSize:       v.GetInt("database.pool_size"),
			AcquireTimeout: v.GetDuration("database.acquire_timeout"),
			AutoMigrate:    v.GetBool("database.auto_migrate"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
	}

	if cfg.Database.PoolSize < 1 {
		return nil, fmt.Errorf("database.pool_size must be positive, got %d", cfg.Database.PoolSize)
	}

	return cfg, nil
}
