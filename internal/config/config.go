package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBHost     string `yaml:"db_host"`
	DBPort     int    `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	OpenAIKey        string `yaml:"openai_api_key"`
	ChatModel        string `yaml:"chat_model"`
	TranscribeModel  string `yaml:"transcribe_model"`
	AITimeoutSeconds int    `yaml:"ai_timeout_seconds"`

	JWTSecret      string   `yaml:"jwt_secret"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load builds the config from an optional YAML file (CONFIG_PATH), with
// environment variables taking precedence over file values.
func Load() *Config {
	cfg := &Config{
		DBPort:           5432,
		ChatModel:        "gpt-4-turbo",
		TranscribeModel:  "whisper-1",
		AITimeoutSeconds: 60,
		Port:             8080,
		AllowedOrigins:   []string{"http://localhost:3000", "https://meetyudai.com"},
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[WARN] config file %s not readable: %v", path, err)
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Printf("[WARN] config file %s not valid yaml: %v", path, err)
		}
	}

	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&cfg.DBHost, "DB_HOST")
	setInt(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")

	setString(&cfg.OpenAIKey, "OPENAI_API_KEY")
	setString(&cfg.ChatModel, "OPENAI_MODEL")
	setString(&cfg.TranscribeModel, "TRANSCRIBE_MODEL")
	setInt(&cfg.AITimeoutSeconds, "AI_TIMEOUT_SECONDS")

	setString(&cfg.JWTSecret, "JWT_SECRET")
	setInt(&cfg.Port, "PORT")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}
