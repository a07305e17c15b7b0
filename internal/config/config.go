package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the explicit configuration object built once at process start
// and passed into each component. Secrets come from the environment only.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	GroqAPIKey       string `mapstructure:"GROQ_API_KEY"`
	GroqBaseURL      string `mapstructure:"GROQ_BASE_URL"`
	GroqModel        string `mapstructure:"GROQ_MODEL"`
	GroqWhisperModel string `mapstructure:"GROQ_WHISPER_MODEL"`

	InterviewTurnCap   int   `mapstructure:"INTERVIEW_TURN_CAP"`
	MinTranscriptChars int   `mapstructure:"MIN_TRANSCRIPT_CHARS"`
	MaxUploadBytes     int64 `mapstructure:"MAX_UPLOAD_BYTES"`

	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	DoctorChatID     int64  `mapstructure:"DOCTOR_CHAT_ID"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GROQ_WHISPER_MODEL", "whisper-large-v3-turbo")
	v.SetDefault("INTERVIEW_TURN_CAP", 20)
	v.SetDefault("MIN_TRANSCRIPT_CHARS", 20)
	v.SetDefault("MAX_UPLOAD_BYTES", 25*1024*1024)
	v.SetDefault("CORS_ORIGINS", "*")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("MIGRATIONS_DIR")
	v.BindEnv("GROQ_API_KEY")
	v.BindEnv("GROQ_BASE_URL")
	v.BindEnv("GROQ_MODEL")
	v.BindEnv("GROQ_WHISPER_MODEL")
	v.BindEnv("INTERVIEW_TURN_CAP")
	v.BindEnv("MIN_TRANSCRIPT_CHARS")
	v.BindEnv("MAX_UPLOAD_BYTES")
	v.BindEnv("TELEGRAM_BOT_TOKEN")
	v.BindEnv("DOCTOR_CHAT_ID")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}
	if cfg.InterviewTurnCap <= 0 {
		return nil, fmt.Errorf("INTERVIEW_TURN_CAP must be positive")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}
