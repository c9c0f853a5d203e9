package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"statarb/pkg/utils"
)

// ErrInvalidConfig - недопустимое значение параметра конфигурации.
// Возвращается только при старте, все ошибки конфигурации фатальны.
var ErrInvalidConfig = errors.New("invalid config")

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Strategy StrategyConfig
	Risk     RiskConfig
	Engine   EngineConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// StrategyConfig - параметры стратегии парного трейдинга
type StrategyConfig struct {
	Name                 string  // pairs_trading, stat_arb
	LookbackPeriod       int     // окно расчёта статистик (точек)
	ZEntryThreshold      float64 // |z| для входа
	ZExitThreshold       float64 // |z| для выхода
	CorrelationThreshold float64 // минимальная корреляция для входа
	CointSignificance    float64 // уровень значимости теста коинтеграции
	RequireCointegration bool    // блокировать вход без коинтеграции
}

// RiskConfig - параметры риск-менеджмента
type RiskConfig struct {
	PositionSize    float64 // доля баланса на сделку
	MaxPositionSize float64 // максимальная доля баланса
	StopLossZScore  float64 // |z| стоп-лосса
	MaxDrawdown     float64 // лимит просадки (доля от пика)
}

// EngineConfig - настройки торгового цикла
type EngineConfig struct {
	Pairs          []PairSpec    // торгуемые пары
	UpdateInterval time.Duration // период цикла
	TradingEnabled bool          // false = paper trading
	InitialBalance float64       // стартовый баланс paper-шлюза
	FetchRate      float64       // лимит запросов к источнику цен (req/sec)
	FetchBurst     float64       // burst для rate limiter
	PriceSourceURL string        // внешний HTTP источник цен, пусто = PostgreSQL
}

// PairSpec - пара активов из конфигурации
type PairSpec struct {
	Asset1 string
	Asset2 string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
//
// Формат TRADING_PAIRS: "BTC/USDT:ETH/USDT,SOL/USDT:AVAX/USDT"
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "statarb"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Strategy: StrategyConfig{
			Name:                 getEnv("STRATEGY_NAME", "pairs_trading"),
			LookbackPeriod:       getEnvAsInt("LOOKBACK_PERIOD", 60),
			ZEntryThreshold:      getEnvAsFloat("Z_ENTRY_THRESHOLD", 2.0),
			ZExitThreshold:       getEnvAsFloat("Z_EXIT_THRESHOLD", 0.5),
			CorrelationThreshold: getEnvAsFloat("CORRELATION_THRESHOLD", 0.8),
			CointSignificance:    getEnvAsFloat("COINT_SIGNIFICANCE", 0.05),
			RequireCointegration: getEnvAsBool("REQUIRE_COINTEGRATION", false),
		},
		Risk: RiskConfig{
			PositionSize:    getEnvAsFloat("POSITION_SIZE", 0.1),
			MaxPositionSize: getEnvAsFloat("MAX_POSITION", 0.2),
			StopLossZScore:  getEnvAsFloat("STOP_LOSS_Z", 3.0),
			MaxDrawdown:     getEnvAsFloat("MAX_DRAWDOWN", 0.3),
		},
		Engine: EngineConfig{
			Pairs:          parsePairs(getEnv("TRADING_PAIRS", "BTC/USDT:ETH/USDT")),
			UpdateInterval: getEnvAsDuration("UPDATE_INTERVAL", 5*time.Minute),
			TradingEnabled: getEnvAsBool("TRADING_ENABLED", false),
			InitialBalance: getEnvAsFloat("INITIAL_BALANCE", 10000),
			FetchRate:      getEnvAsFloat("FETCH_RATE", 10),
			FetchBurst:     getEnvAsFloat("FETCH_BURST", 20),
			PriceSourceURL: getEnv("PRICE_SOURCE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: SERVER_PORT must be between 1 and 65535, got %d", ErrInvalidConfig, c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("%w: DB_PORT must be between 1 and 65535, got %d", ErrInvalidConfig, c.Database.Port)
	}

	if c.Strategy.LookbackPeriod < 2 {
		return fmt.Errorf("%w: LOOKBACK_PERIOD must be at least 2, got %d", ErrInvalidConfig, c.Strategy.LookbackPeriod)
	}

	if c.Strategy.ZEntryThreshold <= 0 {
		return fmt.Errorf("%w: Z_ENTRY_THRESHOLD must be positive, got %f", ErrInvalidConfig, c.Strategy.ZEntryThreshold)
	}

	if c.Strategy.ZExitThreshold <= 0 {
		return fmt.Errorf("%w: Z_EXIT_THRESHOLD must be positive, got %f", ErrInvalidConfig, c.Strategy.ZExitThreshold)
	}

	if c.Strategy.ZExitThreshold >= c.Strategy.ZEntryThreshold {
		return fmt.Errorf("%w: Z_EXIT_THRESHOLD must be below Z_ENTRY_THRESHOLD", ErrInvalidConfig)
	}

	if c.Strategy.CorrelationThreshold < 0 || c.Strategy.CorrelationThreshold > 1 {
		return fmt.Errorf("%w: CORRELATION_THRESHOLD must be in [0, 1], got %f", ErrInvalidConfig, c.Strategy.CorrelationThreshold)
	}

	if c.Strategy.CointSignificance <= 0 || c.Strategy.CointSignificance >= 1 {
		return fmt.Errorf("%w: COINT_SIGNIFICANCE must be in (0, 1), got %f", ErrInvalidConfig, c.Strategy.CointSignificance)
	}

	if c.Risk.PositionSize <= 0 || c.Risk.PositionSize > 1 {
		return fmt.Errorf("%w: POSITION_SIZE must be in (0, 1], got %f", ErrInvalidConfig, c.Risk.PositionSize)
	}

	if c.Risk.MaxPositionSize <= 0 || c.Risk.MaxPositionSize > 1 {
		return fmt.Errorf("%w: MAX_POSITION must be in (0, 1], got %f", ErrInvalidConfig, c.Risk.MaxPositionSize)
	}

	if c.Risk.StopLossZScore <= c.Strategy.ZEntryThreshold {
		return fmt.Errorf("%w: STOP_LOSS_Z must exceed Z_ENTRY_THRESHOLD", ErrInvalidConfig)
	}

	if c.Risk.MaxDrawdown <= 0 || c.Risk.MaxDrawdown >= 1 {
		return fmt.Errorf("%w: MAX_DRAWDOWN must be in (0, 1), got %f", ErrInvalidConfig, c.Risk.MaxDrawdown)
	}

	if len(c.Engine.Pairs) == 0 {
		return fmt.Errorf("%w: TRADING_PAIRS must list at least one pair", ErrInvalidConfig)
	}

	for _, p := range c.Engine.Pairs {
		if err := utils.ValidatePairSpec(p.Asset1, p.Asset2); err != nil {
			return fmt.Errorf("%w: pair %q:%q: %v", ErrInvalidConfig, p.Asset1, p.Asset2, err)
		}
	}

	if c.Engine.UpdateInterval <= 0 {
		return fmt.Errorf("%w: UPDATE_INTERVAL must be positive, got %v", ErrInvalidConfig, c.Engine.UpdateInterval)
	}

	if c.Engine.InitialBalance <= 0 {
		return fmt.Errorf("%w: INITIAL_BALANCE must be positive, got %f", ErrInvalidConfig, c.Engine.InitialBalance)
	}

	return nil
}

// parsePairs разбирает список пар из строки вида "A:B,C:D"
// Некорректные элементы сохраняются с пустыми полями и
// отбрасываются валидацией
func parsePairs(raw string) []PairSpec {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var pairs []PairSpec
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.SplitN(item, ":", 2)
		spec := PairSpec{}
		if len(parts) == 2 {
			spec.Asset1 = utils.NormalizeAsset(parts[0])
			spec.Asset2 = utils.NormalizeAsset(parts[1])
		}
		pairs = append(pairs, spec)
	}
	return pairs
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
