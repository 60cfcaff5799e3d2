package config

import (
	"log"
	"strings"
	"time"

	"voicedesk/models"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisTaskDB    int    `mapstructure:"REDIS_TASK_DB"`

	// Optional MongoDB archive for confirmed bookings. Empty disables it.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Provider credentials.
	GeminiAPIKey             string `mapstructure:"GEMINI_API_KEY"`
	GroqAPIKey               string `mapstructure:"GROQ_API_KEY"`
	DeepgramAPIKey           string `mapstructure:"DEEPGRAM_API_KEY"`
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`

	// Assistant behavior.
	OrderType           string `mapstructure:"ORDER_TYPE"`   // "salon" or "pizza"
	PhonePolicy         string `mapstructure:"PHONE_POLICY"` // "STRICT_UK" or "DIGITS_ONLY"
	BookingIDPrefix     string `mapstructure:"BOOKING_ID_PREFIX"`
	BookingCounterStart int    `mapstructure:"BOOKING_COUNTER_START"`
	KnowledgeDir        string `mapstructure:"KNOWLEDGE_DIR"`
	SpeechLanguage      string `mapstructure:"SPEECH_LANGUAGE"`

	// ProviderTimeoutMS bounds each individual provider attempt inside a
	// fallback pool.
	ProviderTimeoutMS int `mapstructure:"PROVIDER_TIMEOUT_MS"`
	// SessionTTLMin is how long an idle conversation survives before the
	// janitor discards its draft.
	SessionTTLMin int `mapstructure:"SESSION_TTL_MIN"`

	// BusinessHours maps weekday names ("monday") to "HH:MM-HH:MM" windows.
	BusinessHours map[string]string `mapstructure:"BUSINESS_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "voicedesk")
	viper.SetDefault("ORDER_TYPE", "salon")
	viper.SetDefault("PHONE_POLICY", "STRICT_UK")
	viper.SetDefault("BOOKING_ID_PREFIX", "BKG")
	viper.SetDefault("BOOKING_COUNTER_START", 1000)
	viper.SetDefault("KNOWLEDGE_DIR", "./knowledge")
	viper.SetDefault("SPEECH_LANGUAGE", "en-GB")
	viper.SetDefault("PROVIDER_TIMEOUT_MS", 10000)
	viper.SetDefault("SESSION_TTL_MIN", 30)
	viper.SetDefault("BUSINESS_HOURS", map[string]string{
		"monday":    "9:00-20:00",
		"tuesday":   "9:00-20:00",
		"wednesday": "9:00-20:00",
		"thursday":  "9:00-20:00",
		"friday":    "9:00-20:00",
		"saturday":  "9:00-20:00",
		"sunday":    "10:00-18:00",
	})

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ProviderTimeout returns the per-attempt timeout as a duration.
func ProviderTimeout() time.Duration {
	return time.Duration(AppConfig.ProviderTimeoutMS) * time.Millisecond
}

// SessionTTL returns the idle session lifetime as a duration.
func SessionTTL() time.Duration {
	return time.Duration(AppConfig.SessionTTLMin) * time.Minute
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Hours converts the configured weekday windows into the model form used by
// the validators. Entries that do not parse as "HH:MM-HH:MM" are skipped, so
// a misconfigured day reads as closed rather than crashing startup.
func Hours() models.BusinessHours {
	hours := make(models.BusinessHours, len(AppConfig.BusinessHours))
	for name, window := range AppConfig.BusinessHours {
		day, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			continue
		}
		open, close, ok := strings.Cut(window, "-")
		if !ok {
			continue
		}
		hours[day] = models.HoursWindow{
			Open:  strings.TrimSpace(open),
			Close: strings.TrimSpace(close),
		}
	}
	return hours
}
