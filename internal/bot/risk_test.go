package bot

import (
	"math"
	"testing"

	"statarb/internal/config"
	"statarb/internal/models"
)

// TestPositionSize проверяет расчёт размера позиции с верхним пределом
func TestPositionSize(t *testing.T) {
	tests := []struct {
		name            string
		positionSize    float64
		maxPositionSize float64
		balance         float64
		want            float64
	}{
		{name: "обычная доля", positionSize: 0.1, maxPositionSize: 0.2, balance: 10000, want: 1000},
		{name: "ограничение максимумом", positionSize: 0.5, maxPositionSize: 0.2, balance: 10000, want: 2000},
		{name: "равные доли", positionSize: 0.2, maxPositionSize: 0.2, balance: 5000, want: 1000},
		{name: "нулевой баланс", positionSize: 0.1, maxPositionSize: 0.2, balance: 0, want: 0},
		{name: "отрицательный баланс", positionSize: 0.1, maxPositionSize: 0.2, balance: -100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := NewRiskManager(config.RiskConfig{
				PositionSize:    tt.positionSize,
				MaxPositionSize: tt.maxPositionSize,
				StopLossZScore:  3.0,
				MaxDrawdown:     0.3,
			})
			got := rm.PositionSize(tt.balance)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PositionSize(%v) = %v, ожидалось %v", tt.balance, got, tt.want)
			}
		})
	}
}

// TestCheckStopLoss проверяет направленность стоп-лосса
func TestCheckStopLoss(t *testing.T) {
	rm := NewRiskManager(config.RiskConfig{
		PositionSize:    0.1,
		MaxPositionSize: 0.2,
		StopLossZScore:  3.0,
		MaxDrawdown:     0.3,
	})

	tests := []struct {
		name    string
		current float64
		entry   float64
		want    bool
	}{
		// Вход при положительной z-оценке: стоп при росте выше порога
		{name: "short spread, стоп сработал", current: 3.2, entry: 2.1, want: true},
		{name: "short spread, на пороге", current: 3.0, entry: 2.1, want: false},
		{name: "short spread, норма", current: 2.5, entry: 2.1, want: false},
		{name: "short spread, сходимость", current: 0.1, entry: 2.1, want: false},

		// Вход при отрицательной z-оценке: стоп при падении ниже минус порога
		{name: "long spread, стоп сработал", current: -3.5, entry: -2.2, want: true},
		{name: "long spread, на пороге", current: -3.0, entry: -2.2, want: false},
		{name: "long spread, норма", current: -2.0, entry: -2.2, want: false},

		// Нулевая z-оценка входа никогда не стопится
		{name: "нулевой вход, большой рост", current: 10.0, entry: 0, want: false},
		{name: "нулевой вход, большое падение", current: -10.0, entry: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rm.CheckStopLoss(tt.current, tt.entry)
			if got != tt.want {
				t.Errorf("CheckStopLoss(%v, %v) = %v, ожидалось %v", tt.current, tt.entry, got, tt.want)
			}
		})
	}
}

// TestDrawdown проверяет расчёт и лимит просадки
func TestDrawdown(t *testing.T) {
	rm := NewRiskManager(config.RiskConfig{
		PositionSize:    0.1,
		MaxPositionSize: 0.2,
		StopLossZScore:  3.0,
		MaxDrawdown:     0.3,
	})

	tests := []struct {
		name     string
		peak     float64
		current  float64
		ratio    float64
		exceeded bool
	}{
		{name: "без просадки", peak: 10000, current: 10000, ratio: 0, exceeded: false},
		{name: "рост выше пика", peak: 10000, current: 11000, ratio: 0, exceeded: false},
		{name: "просадка 10%", peak: 10000, current: 9000, ratio: 0.1, exceeded: false},
		{name: "просадка ровно 30%", peak: 10000, current: 7000, ratio: 0.3, exceeded: false},
		{name: "просадка 40%", peak: 10000, current: 6000, ratio: 0.4, exceeded: true},
		{name: "нулевой пик", peak: 0, current: 0, ratio: 0, exceeded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio := rm.Drawdown(tt.peak, tt.current)
			if math.Abs(ratio-tt.ratio) > 1e-9 {
				t.Errorf("Drawdown(%v, %v) = %v, ожидалось %v", tt.peak, tt.current, ratio, tt.ratio)
			}
			if got := rm.CheckMaxDrawdown(tt.peak, tt.current); got != tt.exceeded {
				t.Errorf("CheckMaxDrawdown(%v, %v) = %v, ожидалось %v", tt.peak, tt.current, got, tt.exceeded)
			}
		})
	}
}

// TestCalculateRiskMetrics проверяет агрегацию статистики сделок
func TestCalculateRiskMetrics(t *testing.T) {
	rm := testRiskManager()

	trades := []models.TradeRecord{
		{Pnl: 100},
		{Pnl: 50},
		{Pnl: -30},
		{Pnl: 0},
	}

	metrics := rm.CalculateRiskMetrics(trades)

	if metrics.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, ожидалось 4", metrics.TotalTrades)
	}
	if metrics.WinningTrades != 2 || metrics.LosingTrades != 1 {
		t.Errorf("Wins/Losses = %d/%d, ожидалось 2/1", metrics.WinningTrades, metrics.LosingTrades)
	}
	if math.Abs(metrics.WinRate-0.5) > 1e-9 {
		t.Errorf("WinRate = %v, ожидалось 0.5", metrics.WinRate)
	}
	if math.Abs(metrics.AvgProfit-75) > 1e-9 {
		t.Errorf("AvgProfit = %v, ожидалось 75", metrics.AvgProfit)
	}
	if math.Abs(metrics.AvgLoss-(-30)) > 1e-9 {
		t.Errorf("AvgLoss = %v, ожидалось -30", metrics.AvgLoss)
	}
	if math.Abs(metrics.ProfitFactor-5.0) > 1e-9 {
		t.Errorf("ProfitFactor = %v, ожидалось 5.0", metrics.ProfitFactor)
	}
	if math.Abs(metrics.TotalPnl-120) > 1e-9 {
		t.Errorf("TotalPnl = %v, ожидалось 120", metrics.TotalPnl)
	}
}

// TestCalculateRiskMetrics_Empty проверяет пустой список сделок
func TestCalculateRiskMetrics_Empty(t *testing.T) {
	rm := testRiskManager()

	metrics := rm.CalculateRiskMetrics(nil)

	if metrics.TotalTrades != 0 || metrics.WinRate != 0 || metrics.TotalPnl != 0 {
		t.Errorf("Метрики пустого списка должны быть нулевыми: %+v", metrics)
	}
}
