package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the server needs. Values come from the YAML
// file first and are then overridden by the environment.
type Config struct {
	Addr        string `yaml:"addr"`
	FrontendURL string `yaml:"frontend_url"`
	RateLimit   int    `yaml:"rate_limit"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Session struct {
		Secret string `yaml:"secret"`
		Secure bool   `yaml:"secure"`
		MaxAge int    `yaml:"max_age"`
	} `yaml:"session"`

	Google struct {
		Key         string `yaml:"key"`
		Secret      string `yaml:"secret"`
		CallbackURL string `yaml:"callback_url"`
	} `yaml:"google"`

	Storage struct {
		AccountID       string `yaml:"account_id"`
		AccessKeyID     string `yaml:"access_key_id"`
		AccessKeySecret string `yaml:"access_key_secret"`
		Endpoint        string `yaml:"endpoint"`
		Bucket          string `yaml:"bucket"`
		PublicURL       string `yaml:"public_url"`
	} `yaml:"storage"`

	AI struct {
		GeminiAPIKey string   `yaml:"gemini_api_key"`
		Models       []string `yaml:"models"`
	} `yaml:"ai"`
}

var defaultLocations = []string{"activities.yaml", "activities.yml", ".activities.yaml"}

// Load reads .env (if present), then the YAML file at path (or the first
// default location found), then applies environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Error loading .env file:", err)
	}

	cfg := &Config{}
	if path == "" {
		for _, loc := range defaultLocations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "ADDR")
	setString(&c.FrontendURL, "FRONTEND_URL")
	setInt(&c.RateLimit, "RATE_LIMIT")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DSN")

	setString(&c.Session.Secret, "SESSION_SECRET")
	setBool(&c.Session.Secure, "SECURE_COOKIES")

	setString(&c.Google.Key, "GOOGLE_KEY")
	setString(&c.Google.Secret, "GOOGLE_SECRET")
	setString(&c.Google.CallbackURL, "GOOGLE_CALLBACK_URL")

	setString(&c.Storage.AccountID, "ACCOUNT_ID")
	setString(&c.Storage.AccessKeyID, "ACCESS_KEY_ID")
	setString(&c.Storage.AccessKeySecret, "ACCESS_KEY_SECRET")
	setString(&c.Storage.Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.Bucket, "BUCKET_NAME")
	setString(&c.Storage.PublicURL, "PUBLIC_URL")

	setString(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	if v := os.Getenv("AI_MODELS"); v != "" {
		c.AI.Models = splitList(v)
	}
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = 86400 * 30
	}
	if c.Google.CallbackURL == "" {
		c.Google.CallbackURL = "http://localhost:3000/auth/google/callback"
	}
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = "photos"
	}
	if c.Storage.Endpoint == "" && c.Storage.AccountID != "" {
		c.Storage.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.Storage.AccountID)
	}
	if len(c.AI.Models) == 0 {
		c.AI.Models = []string{"gemini-2.0-flash", "gemini-1.5-flash"}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Ignoring invalid %s=%q: %v", key, v, err)
			return
		}
		*dst = n
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Ignoring invalid %s=%q: %v", key, v, err)
			return
		}
		*dst = b
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
