package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load с дефолтами не должен падать: %v", err)
	}

	if cfg.Strategy.LookbackPeriod != 60 {
		t.Errorf("LookbackPeriod: ожидали 60, получили %d", cfg.Strategy.LookbackPeriod)
	}
	if cfg.Strategy.ZEntryThreshold != 2.0 {
		t.Errorf("ZEntryThreshold: ожидали 2.0, получили %f", cfg.Strategy.ZEntryThreshold)
	}
	if cfg.Strategy.ZExitThreshold != 0.5 {
		t.Errorf("ZExitThreshold: ожидали 0.5, получили %f", cfg.Strategy.ZExitThreshold)
	}
	if cfg.Strategy.CorrelationThreshold != 0.8 {
		t.Errorf("CorrelationThreshold: ожидали 0.8, получили %f", cfg.Strategy.CorrelationThreshold)
	}
	if cfg.Strategy.RequireCointegration {
		t.Error("RequireCointegration по умолчанию должен быть выключен")
	}
	if cfg.Risk.StopLossZScore != 3.0 {
		t.Errorf("StopLossZScore: ожидали 3.0, получили %f", cfg.Risk.StopLossZScore)
	}
	if cfg.Risk.MaxDrawdown != 0.3 {
		t.Errorf("MaxDrawdown: ожидали 0.3, получили %f", cfg.Risk.MaxDrawdown)
	}
	if cfg.Engine.TradingEnabled {
		t.Error("TradingEnabled по умолчанию должен быть выключен")
	}
	if cfg.Engine.UpdateInterval != 5*time.Minute {
		t.Errorf("UpdateInterval: ожидали 5m, получили %v", cfg.Engine.UpdateInterval)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOOKBACK_PERIOD", "30")
	t.Setenv("Z_ENTRY_THRESHOLD", "2.5")
	t.Setenv("TRADING_PAIRS", "BTC/USDT:ETH/USDT,SOL/USDT:AVAX/USDT")
	t.Setenv("UPDATE_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Strategy.LookbackPeriod != 30 {
		t.Errorf("LookbackPeriod: ожидали 30, получили %d", cfg.Strategy.LookbackPeriod)
	}
	if cfg.Strategy.ZEntryThreshold != 2.5 {
		t.Errorf("ZEntryThreshold: ожидали 2.5, получили %f", cfg.Strategy.ZEntryThreshold)
	}
	if len(cfg.Engine.Pairs) != 2 {
		t.Fatalf("Pairs: ожидали 2, получили %d", len(cfg.Engine.Pairs))
	}
	if cfg.Engine.Pairs[1].Asset1 != "SOL/USDT" || cfg.Engine.Pairs[1].Asset2 != "AVAX/USDT" {
		t.Errorf("Pairs[1]: получили %+v", cfg.Engine.Pairs[1])
	}
	if cfg.Engine.UpdateInterval != 30*time.Second {
		t.Errorf("UpdateInterval: ожидали 30s, получили %v", cfg.Engine.UpdateInterval)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"нулевой lookback", "LOOKBACK_PERIOD", "0"},
		{"отрицательный порог входа", "Z_ENTRY_THRESHOLD", "-1"},
		{"выход выше входа", "Z_EXIT_THRESHOLD", "5.0"},
		{"нулевой порог выхода", "Z_EXIT_THRESHOLD", "0"},
		{"корреляция больше 1", "CORRELATION_THRESHOLD", "1.5"},
		{"значимость вне диапазона", "COINT_SIGNIFICANCE", "1.0"},
		{"нулевая доля позиции", "POSITION_SIZE", "0"},
		{"доля позиции больше 1", "POSITION_SIZE", "1.5"},
		{"стоп-лосс ниже входа", "STOP_LOSS_Z", "1.0"},
		{"просадка больше 1", "MAX_DRAWDOWN", "1.0"},
		{"пустой список пар", "TRADING_PAIRS", " "},
		{"пара без разделителя", "TRADING_PAIRS", "BTCUSDT"},
		{"пара из одного актива", "TRADING_PAIRS", "BTC/USDT:BTC/USDT"},
		{"разные валюты котировки", "TRADING_PAIRS", "BTC/USDT:ETH/USDC"},
		{"невалидный порт", "SERVER_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("ожидали ошибку для %s=%s", tt.key, tt.value)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ошибка должна оборачивать ErrInvalidConfig, получили: %v", err)
			}
		})
	}
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{"одна пара", "BTC/USDT:ETH/USDT", 1},
		{"две пары", "A:B,C:D", 2},
		{"пробелы вокруг", " A:B , C:D ", 2},
		{"пустая строка", "", 0},
		{"пустые элементы пропускаются", "A:B,,C:D", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := parsePairs(tt.raw)
			if len(pairs) != tt.expected {
				t.Errorf("ожидали %d пар, получили %d", tt.expected, len(pairs))
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "secret",
		Name:     "statarb",
		SSLMode:  "disable",
	}

	dsn := db.DSN()
	expected := "host=localhost port=5432 user=user password=secret dbname=statarb sslmode=disable"
	if dsn != expected {
		t.Errorf("DSN: ожидали '%s', получили '%s'", expected, dsn)
	}

	// Пароль не должен попадать в строку для логирования
	safe := db.DSNWithoutPassword()
	for i := 0; i+6 <= len(safe); i++ {
		if safe[i:i+6] == "secret" {
			t.Error("DSNWithoutPassword не должен содержать пароль")
		}
	}
}
