package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"OPENAI_API_KEY", "OPENAI_MODEL", "TRANSCRIBE_MODEL", "AI_TIMEOUT_SECONDS",
		"JWT_SECRET", "PORT", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.DBPort != 5432 {
		t.Fatalf("db_port=%d, want 5432", cfg.DBPort)
	}
	if cfg.ChatModel != "gpt-4-turbo" {
		t.Fatalf("chat_model=%q, want gpt-4-turbo", cfg.ChatModel)
	}
	if cfg.TranscribeModel != "whisper-1" {
		t.Fatalf("transcribe_model=%q, want whisper-1", cfg.TranscribeModel)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port=%d, want 8080", cfg.Port)
	}
	if cfg.AITimeout() != 60*time.Second {
		t.Fatalf("ai timeout=%v, want 60s", cfg.AITimeout())
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Fatal("no default allowed origins")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.DBHost != "db.internal" || cfg.DBPort != 6543 {
		t.Fatalf("db override not applied: host=%q port=%d", cfg.DBHost, cfg.DBPort)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Fatalf("chat_model=%q, want gpt-4o", cfg.ChatModel)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != want[0] || cfg.AllowedOrigins[1] != want[1] {
		t.Fatalf("origins=%v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadYAMLFileWithEnvWinning(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlBody := "db_host: file-host\ndb_name: tasks\nchat_model: gpt-4-from-file\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_HOST", "env-host")

	cfg := Load()
	if cfg.DBName != "tasks" {
		t.Fatalf("db_name=%q, want tasks (from file)", cfg.DBName)
	}
	if cfg.ChatModel != "gpt-4-from-file" {
		t.Fatalf("chat_model=%q, want gpt-4-from-file", cfg.ChatModel)
	}
	if cfg.DBHost != "env-host" {
		t.Fatalf("db_host=%q, want env-host (env wins over file)", cfg.DBHost)
	}
}

func TestLoadIgnoresBadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	if cfg.Port != 8080 {
		t.Fatalf("port=%d, want default 8080 when file is missing", cfg.Port)
	}
}

func TestConnString(t *testing.T) {
	cfg := &Config{DBHost: "localhost", DBPort: 5432, DBUser: "app", DBPassword: "pw", DBName: "tasks"}
	want := "host=localhost port=5432 user=app password=pw dbname=tasks sslmode=disable"
	if got := cfg.ConnString(); got != want {
		t.Fatalf("conn string=%q, want %q", got, want)
	}
}
