package config

import (
	"flag"
	"os"
	"os/user"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string        `yaml:"env" env:"ENV" env-default:"local"`
	Timezone   string        `yaml:"timezone" env-default:"Local"`
	Operator   string        `yaml:"operator" env:"SCHEDULER_OPERATOR"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"12h"`
	Secret     string        `yaml:"secret" env:"JWT_SECRET"`
	Mediasite  Mediasite     `yaml:"mediasite"`
	Jobs       Jobs          `yaml:"jobs"`
	HTTPServer HTTPServer    `yaml:"http_server"`
	Operators  []Operator    `yaml:"operators"`
	Reports    Reports       `yaml:"reports"`
	Recorders  Recorders     `yaml:"recorders"`
}

type Mediasite struct {
	BaseURL            string        `yaml:"base_url" env:"MEDIASITE_BASE_URL" env-required:"true"`
	APIKey             string        `yaml:"api_key" env:"MEDIASITE_API_KEY" env-required:"true"`
	Username           string        `yaml:"username" env:"MEDIASITE_USERNAME" env-required:"true"`
	Password           string        `yaml:"password" env:"MEDIASITE_PASSWORD" env-required:"true"`
	RootFolderID       string        `yaml:"root_folder_id"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	Timeout            time.Duration `yaml:"timeout" env-default:"30s"`
	RatePerSec         int           `yaml:"rate_per_sec" env-default:"5"`
}

type Jobs struct {
	PollInterval time.Duration `yaml:"poll_interval" env-default:"5s"`
	MaxAttempts  int           `yaml:"max_attempts" env-default:"360"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env-default:"localhost:8080"`
	Timeout      time.Duration `yaml:"timeout" env-default:"4s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10m"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Operator struct {
	Email        string `yaml:"email"`
	Name         string `yaml:"name"`
	PasswordHash string `yaml:"password_hash"`
}

type Reports struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format" env-default:"XML"`
	Dir    string `yaml:"dir" env-default:"./reports"`
	Cron   string `yaml:"cron"`
}

type Recorders struct {
	Ignore []string `yaml:"ignore"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	if cfg.Operator == "" {
		cfg.Operator = currentUser()
	}

	return &cfg
}

// Location resolves the operator's local zone. "Local" means the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}

	return time.LoadLocation(c.Timezone)
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

func currentUser() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}

	return u.Username
}
