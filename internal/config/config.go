package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

// Enabled — S3 настроен достаточно, чтобы подключаться
func (s S3) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

type Config struct {
	Port        string
	DatabaseURL string
	S3          S3

	TelegramToken string
	AdminChatIDs  []int64
	AuthToken     string

	Renderer        string
	OutputDir       string
	RateLimitPerMin int

	DefaultDPI      int
	DefaultFitWidth int
	MaxDPI          int
	MaxFitWidth     int
	JobTTL          time.Duration
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Secure:    getenv("S3_SECURE", "true") != "false",
		},
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		AuthToken:     os.Getenv("AUTH_TOKEN"),
		Renderer:      getenv("PDF_RENDERER", "fitz"),
		OutputDir:     getenv("OUTPUT_DIR", filepath.Join(os.TempDir(), "pdf2image")),
	}

	var err error
	if cfg.RateLimitPerMin, err = getint("RATE_LIMIT_PER_MIN", 10); err != nil {
		return nil, err
	}
	if cfg.DefaultDPI, err = getint("DEFAULT_DPI", 200); err != nil {
		return nil, err
	}
	if cfg.DefaultFitWidth, err = getint("DEFAULT_FIT_WIDTH", 1000); err != nil {
		return nil, err
	}
	if cfg.MaxDPI, err = getint("MAX_DPI", 600); err != nil {
		return nil, err
	}
	if cfg.MaxFitWidth, err = getint("MAX_FIT_WIDTH", 4000); err != nil {
		return nil, err
	}
	ttlHours, err := getint("JOB_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JobTTL = time.Duration(ttlHours) * time.Hour
	if cfg.AdminChatIDs, err = getint64s("ADMIN_CHAT_IDS"); err != nil {
		return nil, err
	}

	switch cfg.Renderer {
	case "fitz", "poppler":
	default:
		return nil, fmt.Errorf("PDF_RENDERER: unknown renderer %q", cfg.Renderer)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getint64s(key string) ([]int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	var out []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, id)
	}
	return out, nil
}
