package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

type Config struct {
	Debug     bool
	LogDir    string
	LogLevel  string
	LogFormat string

	HealthPort      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	Telegram    TelegramConfig
	OpenAI      OpenAIConfig
	Summary     SummaryConfig
	Translation TranslationConfig
	Extractor   ExtractorConfig
	RateLimit   RateLimitConfig
	Database    DatabaseConfig
	Archive     ArchiveConfig
}

type TelegramConfig struct {
	Token   string
	Workers int
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// SummaryConfig holds the defaults the orchestrator passes to the caption
// fetcher and the chunked summarizer.
type SummaryConfig struct {
	Language         string
	IncludeAuto      bool
	MaxChunkWords    int
	Persona          string
	Model            string
	MaxTokens        int
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
}

type TranslationConfig struct {
	APIKey string
	Target string
}

type ExtractorConfig struct {
	BinaryPath string
	Timeout    time.Duration
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	BurstSize         int
}

type DatabaseConfig struct {
	Path string
}

type ArchiveConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether summaries should be archived to object storage.
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Load reads an optional dotenv file and then the process environment.
// An empty envFile means ".env" in the working directory; a missing file
// is not an error. Callers run Validate or ValidateBot for the settings
// they depend on.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to load %s", envFile)
	}

	cfg := &Config{
		Debug:     getEnvAsBool("DEBUG", false),
		LogDir:    GetEnv("LOG_DIR", ""),
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "text"),

		HealthPort:      GetEnv("HEALTH_PORT", ""),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		Telegram: TelegramConfig{
			Token:   GetEnv("TELEGRAM_TOKEN", ""),
			Workers: getEnvAsInt("BOT_WORKERS", 4),
		},

		OpenAI: OpenAIConfig{
			APIKey:  GetEnv("OPENAI_API_KEY", ""),
			BaseURL: GetEnv("OPENAI_BASE_URL", ""),
		},

		Summary: SummaryConfig{
			Language:         GetEnv("CAPTION_LANGUAGE", "en"),
			IncludeAuto:      getEnvAsBool("CAPTIONS_INCLUDE_AUTO", true),
			MaxChunkWords:    getEnvAsInt("MAX_CHUNK_SIZE", 1000),
			Persona:          GetEnv("PERSON_TYPE", "high school student"),
			Model:            GetEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:        getEnvAsInt("MAX_TOKENS", 500),
			Temperature:      getEnvAsFloat32("TEMPERATURE", 0.7),
			TopP:             getEnvAsFloat32("TOP_P", 1.0),
			FrequencyPenalty: getEnvAsFloat32("FREQUENCY_PENALTY", 0.0),
		},

		Translation: TranslationConfig{
			APIKey: GetEnv("GOOGLE_TRANSLATE_API_KEY", ""),
			Target: GetEnv("TRANSLATE_TARGET", "ru"),
		},

		Extractor: ExtractorConfig{
			BinaryPath: GetEnv("YTDLP_PATH", "yt-dlp"),
			Timeout:    getEnvAsDuration("YTDLP_TIMEOUT", 2*time.Minute),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 6),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 2),
		},

		Database: DatabaseConfig{
			Path: GetEnv("DB_PATH", "./data/ytsum.db"),
		},

		Archive: ArchiveConfig{
			Endpoint:  GetEnv("SPACES_ENDPOINT", ""),
			Region:    GetEnv("SPACES_REGION", "us-east-1"),
			Bucket:    GetEnv("SPACES_BUCKET", ""),
			AccessKey: GetEnv("SPACES_ACCESS_KEY", ""),
			SecretKey: GetEnv("SPACES_SECRET_KEY", ""),
		},
	}

	return cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if c.Summary.MaxChunkWords <= 0 {
		return errors.New("max chunk size must be greater than 0")
	}
	if c.Summary.MaxTokens <= 0 {
		return errors.New("max tokens must be greater than 0")
	}
	// A zero temperature or top_p is dropped from the completion request
	// and the host default applies instead.
	if c.Summary.Temperature <= 0 || c.Summary.Temperature > 2 {
		return errors.New("temperature must be in (0, 2]")
	}
	if c.Summary.TopP <= 0 || c.Summary.TopP > 1 {
		return errors.New("top_p must be in (0, 1]")
	}
	if c.Summary.Model == "" {
		return errors.New("model is required")
	}
	if err := validateLanguage("caption language", c.Summary.Language); err != nil {
		return err
	}
	if err := validateLanguage("translation target", c.Translation.Target); err != nil {
		return err
	}
	if c.Extractor.BinaryPath == "" {
		return errors.New("yt-dlp path is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be greater than 0")
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Archive.Enabled() && (c.Archive.AccessKey == "" || c.Archive.SecretKey == "") {
		return errors.New("spaces credentials are required when SPACES_BUCKET is set")
	}
	return nil
}

// ValidateBot checks the extra settings needed to run the chat bot.
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if c.Telegram.Workers <= 0 {
		return errors.New("bot workers must be greater than 0")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.BurstSize <= 0) {
		return errors.New("rate limit values must be greater than 0")
	}
	return nil
}

func validateLanguage(name, code string) error {
	if code == "" {
		return errors.Errorf("%s is required", name)
	}
	if _, err := language.Parse(code); err != nil {
		return errors.Wrapf(err, "invalid %s %q", name, code)
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		warnInvalid(key, value, defaultValue, "Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		warnInvalid(key, value, defaultValue, "Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatValue)
		}
		warnInvalid(key, value, defaultValue, "Invalid float, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		warnInvalid(key, value, defaultValue, "Invalid boolean, using default")
	}
	return defaultValue
}

func warnInvalid(key, value string, defaultValue interface{}, msg string) {
	logrus.WithFields(logrus.Fields{
		"key":          key,
		"value":        value,
		"defaultValue": defaultValue,
	}).Warn(msg)
}
