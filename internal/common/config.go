package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	OCR    OCRConfig
	Fields FieldsConfig
	Watch  WatchConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// StoreConfig holds the embedded results store configuration
type StoreConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// OCRConfig holds OCR-related configuration.
// The tesseract path is explicit here rather than process-global state;
// token sources receive it at construction time.
type OCRConfig struct {
	Engine      string // "tesseract" (CLI, TSV mode) or "gosseract" (in-process)
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // e.g., 6 is good for uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default
	Preprocess  bool
	CacheDir    string
}

// FieldsConfig holds the field-specification source and extraction thresholds
type FieldsConfig struct {
	Path          string  // .xlsx or .json field configuration
	MinConfidence float64 // candidate confidence floor on the 0..100 scale
}

// WatchConfig holds directory-watch configuration
type WatchConfig struct {
	Roots    []string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Store: StoreConfig{
			Path:        getEnv("DB_PATH", "facesheets.db"),
			BusyTimeout: getEnvAsDuration("DB_BUSY_TIMEOUT", 5*time.Second),
		},
		OCR: OCRConfig{
			Engine:      getEnv("OCR_ENGINE", "tesseract"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Lang:        getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			PSM:         getEnvAsInt("TESSERACT_PSM", 0),
			OEM:         getEnvAsInt("TESSERACT_OEM", 0),
			Preprocess:  getEnvAsBool("OCR_PREPROCESS", true),
			CacheDir:    getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
		Fields: FieldsConfig{
			Path:          getEnv("FIELD_CONFIG", "config.xlsx"),
			MinConfidence: getEnvAsFloat64("MIN_TOKEN_CONFIDENCE", 10.0),
		},
		Watch: WatchConfig{
			Roots:    getEnvAsList("WATCH_ROOTS"),
			Debounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Fields.Path == "" {
		return NewAppError("CONFIG_ERROR", "FIELD_CONFIG is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case "tesseract", "gosseract":
	default:
		return NewAppError("CONFIG_ERROR", "OCR_ENGINE must be tesseract or gosseract", ErrInvalidInput)
	}
	return nil
}
