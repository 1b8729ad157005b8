package config

import (
	"os"
	"strconv"
	"time"
)

// Tutor constants, kept in one place so every component reads the same
// values.
const (
	// ScoreBase must exceed the largest supported frequency rank (3000)
	// so scores stay positive and strictly ordered by rank.
	ScoreBase = 3001

	// DueHours is how long a correct use of a word stays fresh before the
	// word becomes due for review again.
	DueHours = 24

	// VocabTopN is the size of the spaced/due portion of the selected
	// vocabulary.
	VocabTopN = 250

	// DefaultNewWords / MaxNewWords bound the newWordsPerConversation
	// request parameter.
	DefaultNewWords = 10
	MaxNewWords     = 50
)

type Config struct {
	DatabaseURL string
	RedisURL    string

	GroqAPIKey string
	GroqAPIURL string
	GroqModel  string

	CedictURL string
	DataDir   string

	SchedulerEnabled  bool
	SchedulerInterval time.Duration
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "file:data/app.sqlite"),
		RedisURL:    getEnv("REDIS_URL", ""),

		GroqAPIKey: getEnv("GROQ_API_KEY", ""),
		GroqAPIURL: getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:  getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),

		CedictURL: getEnv("CEDICT_URL", "https://raw.githubusercontent.com/bsun94/ChineseDictionary/master/dict_db/cedict_ts.u8"),
		DataDir:   getEnv("DATA_DIR", "data"),

		SchedulerEnabled:  getEnvBool("SCHEDULER_ENABLED", false),
		SchedulerInterval: getEnvDuration("SCHEDULER_INTERVAL", 24*time.Hour),
	}
}

// ClampNewWords applies the documented [1, MaxNewWords] bound, falling
// back to the default when the value is missing or out of range.
func ClampNewWords(n int) int {
	if n < 1 {
		return DefaultNewWords
	}
	if n > MaxNewWords {
		return MaxNewWords
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
