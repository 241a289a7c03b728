package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Display    `yaml:"display"`
}

type HTTPServer struct {
	Address                 string        `yaml:"address" env-default:"localhost:8085"`
	ReadTimeout             time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout            time.Duration `yaml:"write_timeout" env-default:"5s"`
	IdleTimeout             time.Duration `yaml:"idle_timeout" env-default:"60s"`
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout" env-default:"10s"`
	AllowedOrigins          []string      `yaml:"allowed_origins" env-default:"*"`
}

// Storage selects the banner store. DriverName "sqlite" uses Path as the
// database file (":memory:" for a throwaway store), "postgres" uses the
// host/port/user fields.
type Storage struct {
	DriverName   string        `yaml:"driver_name" env:"STORAGE_DRIVER" env-default:"postgres"`
	Path         string        `yaml:"path" env-default:"banner.db"`
	Host         string        `yaml:"host" env-default:"localhost"`
	Port         int           `yaml:"port" env-default:"5432"`
	Username     string        `yaml:"username" env-default:"postgres"`
	DBname       string        `yaml:"db_name" env-default:"postgres"`
	SSLmode      string        `yaml:"ssl_mode" env-default:"disable"`
	MaxOpenConns int           `yaml:"max_open_conns" env-default:"100"`
	MaxIdleConns int           `yaml:"max_idle_conns" env-default:"2"`
	MaxLifetime  time.Duration `yaml:"max_lifetime" env-default:"1h"`
}

type Display struct {
	// AllowedIPs bypass the display window check.
	AllowedIPs []string `yaml:"allowed_ips" env:"DISPLAY_ALLOWED_IPS" env-default:"10.0.0.1,10.0.0.2"`
	// RegistrationZone is the zone registered start/end times are given in.
	// "Local" is the zone of the host.
	RegistrationZone string `yaml:"registration_zone" env:"DISPLAY_REGISTRATION_ZONE" env-default:"Local"`
	// TrustedProxies are the only peers whose forwarding headers are read.
	TrustedProxies []string `yaml:"trusted_proxies" env:"DISPLAY_TRUSTED_PROXIES"`
}

type Secret struct {
	PostgresPassword string `env:"DB_PASSWORD"`
}

func MustLoad() (*Config, *Secret) {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("Config path is empty")
	}

	cfg, scr, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg, scr
}

func Load(configPath string) (*Config, *Secret, error) {
	const op = "config.Load"

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%s: config file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	scr := &Secret{}
	if err := cleanenv.ReadEnv(scr); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to get secret env: %w", op, err)
	}

	if cfg.DriverName == "postgres" && scr.PostgresPassword == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrNoPassword)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, scr, nil
}

var ErrNoPassword = errors.New("DB_PASSWORD is required for the postgres driver")

// Location returns the zone registration times are interpreted in.
func (d Display) Location() (*time.Location, error) {
	if d.RegistrationZone == "" || d.RegistrationZone == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(d.RegistrationZone)
	if err != nil {
		return nil, fmt.Errorf("registration zone %q: %w", d.RegistrationZone, err)
	}

	return loc, nil
}

func fetchConfigPath() string {
	var configPath, envPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&envPath, "env", "", "path to env file")
	flag.Parse()

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Fatalf("Env file %s does not exist", envPath)
		}
	}

	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	return configPath
}
