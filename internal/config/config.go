package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// MinSecretLen - минимальная длина секретов в байтах.
// Секрет короче этого значения не дает достаточной энтропии для HS256/PBKDF2.
const MinSecretLen = 32

// Значения по умолчанию
const (
	DefaultAddr            = ":8080"
	DefaultDBPath          = "solos.db"
	DefaultAuditLogPath    = "solos-audit.db"
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
	DefaultLockoutWindow   = 15 * time.Minute
	DefaultLockoutLimit    = 5
	DefaultRateLimit       = 60
	DefaultRateWindow      = time.Minute
	DefaultAuthRateLimit   = 10
)

// Config содержит конфигурацию сервера.
// Заполняется из переменных окружения при старте процесса.
type Config struct {
	Addr            string        // адрес HTTP сервера
	DBPath          string        // путь к файлу SQLite
	AuditLogPath    string        // путь к bbolt журналу неудачных попыток входа
	MasterSecret    string        // корневой секрет для деривации пользовательских ключей
	JWTSecret       string        // секрет подписи токенов
	AccessTokenTTL  time.Duration // время жизни access token
	RefreshTokenTTL time.Duration // время жизни refresh token
	LockoutWindow   time.Duration // окно подсчета неудачных попыток
	LockoutLimit    int           // порог блокировки
	RateLimit       int           // запросов на IP в окно
	RateWindow      time.Duration // окно rate limiter
	AuthRateLimit   int           // отдельный, более жесткий лимит для /auth
}

// Load читает конфигурацию из переменных окружения.
// Отсутствующий или короткий секрет — фатальная ошибка конфигурации:
// процесс обязан отказаться стартовать, а не работать с пустым секретом.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:            envString("SOLOS_ADDR", DefaultAddr),
		DBPath:          envString("SOLOS_DB_PATH", DefaultDBPath),
		AuditLogPath:    envString("SOLOS_AUDIT_LOG_PATH", DefaultAuditLogPath),
		MasterSecret:    os.Getenv("SOLOS_MASTER_SECRET"),
		JWTSecret:       os.Getenv("SOLOS_JWT_SECRET"),
		AccessTokenTTL:  DefaultAccessTokenTTL,
		RefreshTokenTTL: DefaultRefreshTokenTTL,
		LockoutWindow:   DefaultLockoutWindow,
		LockoutLimit:    DefaultLockoutLimit,
		RateLimit:       DefaultRateLimit,
		RateWindow:      DefaultRateWindow,
		AuthRateLimit:   DefaultAuthRateLimit,
	}

	var err error
	if cfg.AccessTokenTTL, err = envDuration("SOLOS_ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = envDuration("SOLOS_REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL); err != nil {
		return nil, err
	}
	if cfg.LockoutWindow, err = envDuration("SOLOS_LOCKOUT_WINDOW", cfg.LockoutWindow); err != nil {
		return nil, err
	}
	if cfg.LockoutLimit, err = envInt("SOLOS_LOCKOUT_LIMIT", cfg.LockoutLimit); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = envInt("SOLOS_RATE_LIMIT", cfg.RateLimit); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет конфигурацию.
func (c *Config) Validate() error {
	if len(c.MasterSecret) < MinSecretLen {
		return fmt.Errorf("SOLOS_MASTER_SECRET must be set and at least %d characters", MinSecretLen)
	}
	if len(c.JWTSecret) < MinSecretLen {
		return fmt.Errorf("SOLOS_JWT_SECRET must be set and at least %d characters", MinSecretLen)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh token TTL must be longer than access token TTL")
	}
	if c.LockoutLimit <= 0 {
		return fmt.Errorf("lockout limit must be positive")
	}
	if c.LockoutWindow <= 0 {
		return fmt.Errorf("lockout window must be positive")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
