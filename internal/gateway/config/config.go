package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LLM      LLMConfig
	Pipeline PipelineConfig
	// DatabaseURL selects the Postgres idea store; empty keeps ideas in memory.
	DatabaseURL string
	Archive     ArchiveConfig
	Auth        AuthConfig
	Credits     CreditsConfig
}

type LLMConfig struct {
	Provider    string
	Model       string
	RPS         float64
	Burst       int
	MaxAttempts int
}

type PipelineConfig struct {
	Parallelism     int
	GenerateTimeout time.Duration
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CanUseS3 reports whether the archive has everything minio needs.
func (c ArchiveConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

type AuthConfig struct {
	BotToken string
	Required bool
}

type CreditsConfig struct {
	Daily int
}

const (
	DefaultPort            = ":8081"
	DefaultParallelism     = 4
	DefaultGenerateTimeout = 25 * time.Second
	DefaultDailyCredits    = 200
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", DefaultPort, "server port")
	flag.Parse()

	cfg := FromEnv(os.Getenv)
	if os.Getenv("PORT") == "" {
		cfg.Port = *port
	}
	return cfg, nil
}

// FromEnv builds a Config from getenv without touching flags or .env files.
func FromEnv(getenv func(string) string) *Config {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	port := DefaultPort
	if envPort := get("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			port = envPort
		} else {
			port = ":" + envPort
		}
	}

	env := get("APP_ENV")
	if env == "" {
		env = "local"
	}

	return &Config{
		Port: port,
		Env:  env,
		LLM: LLMConfig{
			Provider:    strings.ToLower(firstNonEmpty(get("LLM_PROVIDER"), defaultProvider(get))),
			Model:       get("LLM_MODEL"),
			RPS:         parseFloat(get("LLM_RPS"), 0),
			Burst:       parseInt(get("LLM_BURST"), 1),
			MaxAttempts: parseInt(get("LLM_MAX_ATTEMPTS"), 1),
		},
		Pipeline: PipelineConfig{
			Parallelism:     parseInt(get("PIPELINE_PARALLELISM"), DefaultParallelism),
			GenerateTimeout: parseDuration(get("GENERATE_TIMEOUT"), DefaultGenerateTimeout),
		},
		DatabaseURL: get("DATABASE_URL"),
		Archive:     loadArchiveConfig(get),
		Auth: AuthConfig{
			BotToken: get("TELEGRAM_BOT_TOKEN"),
			Required: parseBool(get("AUTH_REQUIRED"), false),
		},
		Credits: CreditsConfig{
			Daily: parseInt(get("DAILY_CREDITS"), DefaultDailyCredits),
		},
	}
}

// defaultProvider picks a provider from whichever API key is present, and
// the scripted fake client when none is.
func defaultProvider(get func(string) string) string {
	switch {
	case get("GEMINI_API_KEY") != "":
		return "gemini"
	case get("GROQ_API_KEY") != "":
		return "groq"
	}
	return "fake"
}

func loadArchiveConfig(get func(string) string) ArchiveConfig {
	endpoint := get("ARCHIVE_S3_ENDPOINT")
	return ArchiveConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(get("ARCHIVE_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(get("ARCHIVE_S3_ACCESS_KEY"), get("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(get("ARCHIVE_S3_SECRET_KEY"), get("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(get("ARCHIVE_S3_BUCKET"), "ideaforge-generations"),
		UseSSL:    parseBool(get("ARCHIVE_S3_USE_SSL"), true),
	}
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseFloat(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func parseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// parseDuration accepts Go durations ("30s") or plain seconds ("30").
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
