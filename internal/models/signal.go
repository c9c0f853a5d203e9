package models

import "time"

// TradeSignal представляет торговый сигнал для пары
//
// Количества подписанные: положительное = покупка, отрицательное = продажа.
// Для hold оба количества равны нулю.
type TradeSignal struct {
	Pair      string    `json:"pair"`
	Action    string    `json:"action"`           // hold, buy_spread, sell_spread, close
	Quantity1 float64   `json:"quantity1"`        // подписанное количество актива 1
	Quantity2 float64   `json:"quantity2"`        // подписанное количество актива 2
	ZScore    float64   `json:"zscore"`           // z-score на момент сигнала
	Reason    string    `json:"reason,omitempty"` // причина (для close и hold)
	Timestamp time.Time `json:"timestamp"`
}

// Действия сигнала
const (
	SignalHold       = "hold"        // нет действия
	SignalBuySpread  = "buy_spread"  // вход в long_spread (z < -entry)
	SignalSellSpread = "sell_spread" // вход в short_spread (z > entry)
	SignalClose      = "close"       // закрытие позиции
)

// Причины сигнала
const (
	ReasonConvergence      = "convergence"      // |z| упал ниже порога выхода
	ReasonStopLoss         = "stop_loss"        // спред разошёлся дальше стоп-порога
	ReasonLowCorrelation   = "low_correlation"  // корреляция ниже порога, вход заблокирован
	ReasonNotCointegrated  = "not_cointegrated" // тест коинтеграции не пройден, вход заблокирован
	ReasonInsufficientData = "insufficient_data"
)

// IsEntry возвращает true для сигналов входа
func (s *TradeSignal) IsEntry() bool {
	return s.Action == SignalBuySpread || s.Action == SignalSellSpread
}

// IsActionable возвращает true если сигнал требует исполнения
func (s *TradeSignal) IsActionable() bool {
	return s.Action != SignalHold
}
