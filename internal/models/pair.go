package models

import "time"

// PairConfig представляет конфигурацию торгуемой пары активов
//
// Пара состоит из двух активов, цены которых исторически движутся вместе.
// Торгуется спред: spread = price2 - hedge_ratio * price1
type PairConfig struct {
	Name   string `json:"name"`   // BTC/USDT-ETH/USDT
	Asset1 string `json:"asset1"` // BTC/USDT
	Asset2 string `json:"asset2"` // ETH/USDT
}

// PairName возвращает каноническое имя пары из двух активов
func PairName(asset1, asset2 string) string {
	return asset1 + "-" + asset2
}

// PairRuntime представляет runtime состояние торгуемой пары
type PairRuntime struct {
	Pair        string    `json:"pair"`
	State       string    `json:"state"`                  // flat, long_spread, short_spread
	Quantity1   float64   `json:"quantity1"`              // подписанное количество актива 1
	Quantity2   float64   `json:"quantity2"`              // подписанное количество актива 2
	EntryZScore float64   `json:"entry_zscore"`           // z-score в момент входа
	LastSignal  string    `json:"last_signal,omitempty"`  // последнее действие (hold не записывается)
	LastUpdate  time.Time `json:"last_update"`
}

// Состояния пары (state machine)
const (
	StateFlat        = "flat"         // нет позиции, ожидание условий
	StateLongSpread  = "long_spread"  // куплен спред (short asset1, long asset2)
	StateShortSpread = "short_spread" // продан спред (long asset1, short asset2)
)
