// Пакет config собирает конфигурацию клиента из .env (через godotenv).
// Обязательные параметры (API_ID, API_HASH, PHONE_NUMBER) без значения
// прерывают запуск. Остальные получают значения по умолчанию, а каждая такая
// подстановка попадает в Warnings(), чтобы main мог вывести её после
// инициализации логгера.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// EnvConfig — операционные настройки запуска.
type EnvConfig struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionFile string
	StateFile   string
	LogLevel    string
	ThrottleRPS int
	TestDC      bool
	// WarmupDialogs включает выгрузку диалогов после входа для прогрева кэша хэшей.
	WarmupDialogs bool
	// Файловое логирование
	LogFile           string
	LogFileLevel      string
	LogFileMaxSize    int
	LogFileMaxBackups int
	LogFileMaxAge     int
	LogFileCompress   bool
}

// Config хранит результат загрузки.
type Config struct {
	Env      EnvConfig
	warnings []string
}

const (
	defaultThrottleRPS       = 1
	defaultLogLevel          = "info"
	defaultSessionFile       = "data/session.json"
	defaultStateFile         = "data/updates_state.bbolt"
	defaultWarmupDialogs     = true
	defaultLogFileLevel      = "debug"
	defaultLogFileMaxSize    = 50
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 7
	defaultLogFileCompress   = true
)

var (
	mu          sync.RWMutex
	cfgInstance *Config
)

// Load читает .env и фиксирует конфиг как глобальный. Повторный вызов — ошибка.
func Load(envPath string) error {
	mu.Lock()
	defer mu.Unlock()
	if cfgInstance != nil {
		return errors.New("config already loaded")
	}
	cfg, err := loadConfig(envPath)
	if err != nil {
		return err
	}
	cfgInstance = cfg
	return nil
}

// Env возвращает загруженный EnvConfig. До Load — нулевое значение.
func Env() EnvConfig {
	mu.RLock()
	defer mu.RUnlock()
	if cfgInstance == nil {
		return EnvConfig{}
	}
	return cfgInstance.Env
}

// Warnings возвращает копию предупреждений, накопленных при загрузке.
func Warnings() []string {
	mu.RLock()
	defer mu.RUnlock()
	if cfgInstance == nil {
		return nil
	}
	return append([]string(nil), cfgInstance.warnings...)
}

// loadConfig выполняет загрузку без глобального состояния; используется в тестах.
// Отсутствующий .env не ошибка: переменные могут прийти из окружения процесса.
func loadConfig(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	apiID, err := parseRequiredInt("API_ID")
	if err != nil {
		return nil, err
	}
	apiHash := strings.TrimSpace(os.Getenv("API_HASH"))
	if apiHash == "" {
		return nil, errors.New("env API_HASH must be set")
	}
	phone := strings.TrimSpace(os.Getenv("PHONE_NUMBER"))
	if phone == "" {
		return nil, errors.New("env PHONE_NUMBER must be set")
	}

	var warnings []string
	env := EnvConfig{
		APIID:             apiID,
		APIHash:           apiHash,
		PhoneNumber:       phone,
		SessionFile:       sanitizeFile("SESSION_FILE", defaultSessionFile, &warnings),
		StateFile:         sanitizeFile("STATE_FILE", defaultStateFile, &warnings),
		LogLevel:          sanitizeLogLevel("LOG_LEVEL", defaultLogLevel, &warnings),
		ThrottleRPS:       parseIntDefault("THROTTLE_RPS", defaultThrottleRPS, greaterThanZero, &warnings),
		TestDC:            strings.EqualFold(strings.TrimSpace(os.Getenv("TEST_DC")), "true"),
		WarmupDialogs:     parseBoolDefault("WARMUP_DIALOGS", defaultWarmupDialogs, &warnings),
		LogFile:           strings.TrimSpace(os.Getenv("LOG_FILE")),
		LogFileLevel:      sanitizeLogLevel("LOG_FILE_LEVEL", defaultLogFileLevel, &warnings),
		LogFileMaxSize:    parseIntDefault("LOG_FILE_MAX_SIZE_MB", defaultLogFileMaxSize, greaterThanZero, &warnings),
		LogFileMaxBackups: parseIntDefault("LOG_FILE_MAX_BACKUPS", defaultLogFileMaxBackups, nonNegative, &warnings),
		LogFileMaxAge:     parseIntDefault("LOG_FILE_MAX_AGE_DAYS", defaultLogFileMaxAge, nonNegative, &warnings),
		LogFileCompress:   parseBoolDefault("LOG_FILE_COMPRESS", defaultLogFileCompress, &warnings),
	}

	return &Config{Env: env, warnings: warnings}, nil
}

func parseRequiredInt(name string) (int, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return 0, fmt.Errorf("env %s must be set", name)
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("env %s must be a valid integer: %w", name, err)
	}
	return v, nil
}

// parseIntDefault читает целое; пустое, некорректное или не прошедшее validator
// значение заменяется на defaultVal с предупреждением.
func parseIntDefault(name string, defaultVal int, validator func(int) bool, warnings *[]string) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		appendWarningf(warnings, "env %s is not set; using default %d", name, defaultVal)
		return defaultVal
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		appendWarningf(warnings, "env %s value %q is not a valid integer; using default %d", name, value, defaultVal)
		return defaultVal
	}
	if validator != nil && !validator(v) {
		appendWarningf(warnings, "env %s value %d does not satisfy constraints; using default %d", name, v, defaultVal)
		return defaultVal
	}
	return v
}

func parseBoolDefault(name string, defaultVal bool, warnings *[]string) bool {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		appendWarningf(warnings, "env %s is not set; using default %v", name, defaultVal)
		return defaultVal
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		appendWarningf(warnings, "env %s value %q is not a valid boolean; using default %v", name, value, defaultVal)
		return defaultVal
	}
	return v
}

// sanitizeLogLevel ограничивает значение набором {debug, info, warn, error}.
func sanitizeLogLevel(name, defaultVal string, warnings *[]string) string {
	raw := os.Getenv(name)
	lvl := strings.ToLower(strings.TrimSpace(raw))
	switch lvl {
	case "":
		appendWarningf(warnings, "env %s is not set; using default %q", name, defaultVal)
		return defaultVal
	case "debug", "info", "warn", "error":
		return lvl
	default:
		appendWarningf(warnings, "env %s value %q is invalid; using default %q", name, raw, defaultVal)
		return defaultVal
	}
}

func sanitizeFile(name, fallback string, warnings *[]string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		appendWarningf(warnings, "env %s is not set; using default %q", name, fallback)
		return fallback
	}
	return v
}

func appendWarningf(warnings *[]string, format string, args ...any) {
	if warnings == nil {
		return
	}
	*warnings = append(*warnings, fmt.Sprintf(format, args...))
}

func greaterThanZero(v int) bool { return v > 0 }
func nonNegative(v int) bool     { return v >= 0 }
