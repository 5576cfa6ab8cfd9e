// Package config loads the service configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

// Cache drivers.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

type Config struct {
	Env        string     `yaml:"env"`
	BaseURL    string     `yaml:"base_url"`
	ShortCode  ShortCode  `yaml:"short_code"`
	Expiration Expiration `yaml:"expiration"`
	Cache      `yaml:"cache"`
	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
}

type ShortCode struct {
	Length      int `yaml:"length"`
	MaxAttempts int `yaml:"max_attempts"`
}

type Expiration struct {
	MinTTL time.Duration `yaml:"min_ttl"`
	MaxTTL time.Duration `yaml:"max_ttl"`
}

type Cache struct {
	Driver      string        `yaml:"driver"`
	TTL         time.Duration `yaml:"ttl"`
	NegativeTTL time.Duration `yaml:"negative_ttl"`
	Capacity    int           `yaml:"capacity"`
	Redis       Redis         `yaml:"redis"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

var defaultCache = Cache{
	Driver:      CacheMemory,
	TTL:         24 * time.Hour,
	NegativeTTL: time.Minute,
	Capacity:    10_000,
	Redis: Redis{
		Addr:   "localhost:6379",
		Prefix: "shortlinks:",
	},
}

type Storage struct {
	Driver   string   `yaml:"driver"`
	Postgres Postgres `yaml:"postgres"`
	SQLite   SQLite   `yaml:"sqlite"`
}

type SQLite struct {
	Path string `yaml:"path"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     p.DB,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}

	return &cfg, nil
}

// Validate reports every inconsistent setting of cfg.
func (cfg *Config) Validate() error {
	var errs []error

	switch cfg.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("unknown env %q", cfg.Env))
	}

	if u, err := url.Parse(cfg.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url %q must be an absolute URL", cfg.BaseURL))
	}

	if cfg.ShortCode.Length < 3 || cfg.ShortCode.Length > 20 {
		errs = append(errs, errors.New("short_code.length must be between 3 and 20"))
	}
	if cfg.ShortCode.MaxAttempts <= 0 {
		errs = append(errs, errors.New("short_code.max_attempts must be positive"))
	}

	if cfg.Expiration.MinTTL < 0 {
		errs = append(errs, errors.New("expiration.min_ttl must not be negative"))
	}
	if cfg.Expiration.MinTTL >= cfg.Expiration.MaxTTL {
		errs = append(errs, errors.New("expiration.min_ttl must be less than expiration.max_ttl"))
	}

	switch cfg.Cache.Driver {
	case CacheRedis, CacheMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver))
	}
	if cfg.Cache.TTL <= 0 || cfg.Cache.NegativeTTL <= 0 {
		errs = append(errs, errors.New("cache ttls must be positive"))
	}

	switch cfg.Storage.Driver {
	case StoragePostgres, StorageMemory:
	case StorageSQLite:
		if cfg.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver))
	}

	if cfg.Env == EnvProd && (cfg.HTTPServer.CertFile == "" || cfg.HTTPServer.KeyFile == "") {
		errs = append(errs, errors.New("http_server.cert_file and http_server.key_file are required in prod"))
	}

	return errors.Join(errs...)
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.BaseURL = "http://localhost:8080"
	cfg.ShortCode = ShortCode{Length: 7, MaxAttempts: 10}
	cfg.Expiration = Expiration{MinTTL: time.Minute, MaxTTL: 365 * 24 * time.Hour}
	cfg.Cache = defaultCache
	cfg.Storage = Storage{
		Driver:   StorageMemory,
		Postgres: defaultPostgres,
		SQLite:   SQLite{Path: "shortlinks.db"},
	}
	cfg.HTTPServer = defaultHTTPServer
}
