package bot

import (
	"statarb/internal/config"
	"statarb/internal/models"
)

// RiskManager - менеджер рисков
//
// Функции:
// - Расчет размера позиции как доли баланса с верхним пределом
// - Проверка Stop Loss по z-оценке с учетом направления входа
// - Контроль просадки относительно пикового баланса
// - Агрегация метрик риска по закрытым сделкам
//
// Не хранит состояния: все проверки — чистые функции от аргументов
type RiskManager struct {
	config config.RiskConfig
}

// NewRiskManager создает новый RiskManager
func NewRiskManager(cfg config.RiskConfig) *RiskManager {
	return &RiskManager{config: cfg}
}

// ============================================================
// Размер позиции
// ============================================================

// PositionSize возвращает допустимый размер позиции в котируемой валюте.
//
// Размер = balance * position_size, но не более balance * max_position
func (rm *RiskManager) PositionSize(balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	size := balance * rm.config.PositionSize
	maxSize := balance * rm.config.MaxPositionSize
	if size > maxSize {
		return maxSize
	}
	return size
}

// ============================================================
// Stop Loss
// ============================================================

// CheckStopLoss проверяет срабатывание Stop Loss с учетом направления входа.
//
// Вход при положительной z-оценке (short spread): стоп срабатывает при
// z > stop_loss_z. Вход при отрицательной (long spread): при z < -stop_loss_z.
// Нулевая z-оценка входа не стопится никогда
func (rm *RiskManager) CheckStopLoss(currentZScore, entryZScore float64) bool {
	switch {
	case entryZScore > 0:
		return currentZScore > rm.config.StopLossZScore
	case entryZScore < 0:
		return currentZScore < -rm.config.StopLossZScore
	default:
		return false
	}
}

// ============================================================
// Просадка
// ============================================================

// Drawdown возвращает текущую просадку как долю от пикового баланса
func (rm *RiskManager) Drawdown(peakBalance, currentBalance float64) float64 {
	if peakBalance <= 0 || currentBalance >= peakBalance {
		return 0
	}
	return (peakBalance - currentBalance) / peakBalance
}

// CheckMaxDrawdown проверяет превышение допустимой просадки
func (rm *RiskManager) CheckMaxDrawdown(peakBalance, currentBalance float64) bool {
	return rm.Drawdown(peakBalance, currentBalance) > rm.config.MaxDrawdown
}

// ============================================================
// Метрики риска
// ============================================================

// CalculateRiskMetrics агрегирует статистику по закрытым сделкам
func (rm *RiskManager) CalculateRiskMetrics(trades []models.TradeRecord) models.RiskMetrics {
	metrics := models.RiskMetrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return metrics
	}

	var grossProfit, grossLoss float64
	for _, trade := range trades {
		metrics.TotalPnl += trade.Pnl
		if trade.Pnl > 0 {
			metrics.WinningTrades++
			grossProfit += trade.Pnl
		} else if trade.Pnl < 0 {
			metrics.LosingTrades++
			grossLoss += -trade.Pnl
		}
	}

	metrics.WinRate = float64(metrics.WinningTrades) / float64(metrics.TotalTrades)
	if metrics.WinningTrades > 0 {
		metrics.AvgProfit = grossProfit / float64(metrics.WinningTrades)
	}
	if metrics.LosingTrades > 0 {
		metrics.AvgLoss = -grossLoss / float64(metrics.LosingTrades)
	}
	if grossLoss > 0 {
		metrics.ProfitFactor = grossProfit / grossLoss
	}
	return metrics
}
