package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver   string
		Path     string
		URL      string
		MaxConns int32
	}
	Auth struct {
		JWTSecret       string
		Issuer          string
		TokenTTLMinutes int
		Argon           struct {
			Time    uint32
			Memory  uint32
			Threads uint8
		}
	}
	Log struct {
		Level  string
		Format string
	}
	CORS struct {
		Origins []string
	}
}

// TokenTTL is the configured bearer token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/blog.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.maxconns", 10)
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.issuer", "blog-service")
	v.SetDefault("auth.tokenttlminutes", 60)
	v.SetDefault("auth.argon.time", 1)
	v.SetDefault("auth.argon.memory", 64*1024)
	v.SetDefault("auth.argon.threads", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("cors.origins", []string{"*"})

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORS.Origins = splitList(cfg.CORS.Origins)

	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth jwt secret is required"))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database path is required for sqlite"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, errors.New("database url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// splitList accepts both list values and a single comma separated env string.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
