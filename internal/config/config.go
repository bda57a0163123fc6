package config

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port          int    `yaml:"port"`
	LogLevel      string `yaml:"log_level"`
	LogJSON       bool   `yaml:"log_json"`
	SecureCookies bool   `yaml:"secure_cookies"`

	// AllowedOrigins enables CORS for the listed origins. Empty means no
	// cross-origin access, which is right for the same-origin cookie flow.
	AllowedOrigins []string `yaml:"allowed_origins"`

	Pg      Pg      `yaml:"pg"`
	Redis   Redis   `yaml:"redis"`
	Session Session `yaml:"session"`
	Auth    Auth    `yaml:"auth"`
	Feed    Feed    `yaml:"feed"`
}

type Pg struct {
	// URL wins over the discrete fields when set (DATABASE_URL override).
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (p Pg) ConnString() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Dbname)
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Session struct {
	Backend  string `yaml:"backend"` // redis | memory | jwt
	TTLHours int    `yaml:"ttl_hours"`
}

func (s Session) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

type Auth struct {
	// RequireEmail switches registration from username+password to
	// username+email+password.
	RequireEmail bool `yaml:"require_email"`
	// UniqueUsernames defaults to true when absent from the config file.
	UniqueUsernames *bool `yaml:"unique_usernames"`
}

func (a Auth) UsernamesUnique() bool {
	return a.UniqueUsernames == nil || *a.UniqueUsernames
}

type Feed struct {
	PageSize int `yaml:"page_size"`
}

type Private struct {
	// SessionSecret signs tokens for the jwt session backend.
	SessionSecret string `yaml:"session_secret"`
}

// Load builds the config from defaults, an optional config folder
// (public.yaml, private.yaml) and environment overrides, in that order.
func Load(configFolder string) (*Config, error) {
	cfg := &Config{Public: defaults()}

	if configFolder != "" {
		if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
			return nil, err
		}
		// private.yaml is optional; only the jwt backend needs it
		privatePath := path.Join(configFolder, "private.yaml")
		if _, err := os.Stat(privatePath); err == nil {
			if err := loadPath(privatePath, &cfg.Private); err != nil {
				return nil, err
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() Public {
	return Public{
		Port:     3000,
		LogLevel: "info",
		Pg: Pg{
			Host:   "localhost",
			Port:   5432,
			User:   "postgres",
			Dbname: "mingle",
		},
		Redis:   Redis{Addr: "localhost:6379"},
		Session: Session{Backend: "redis", TTLHours: 7 * 24},
		Feed:    Feed{PageSize: 50},
	}
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Public.Port = port
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Public.Pg.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Public.Redis.Addr = addr
	}
	if backend := os.Getenv("SESSION_BACKEND"); backend != "" {
		cfg.Public.Session.Backend = backend
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Private.SessionSecret = secret
	}
	return nil
}
