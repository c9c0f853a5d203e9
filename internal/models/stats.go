package models

import "time"

// RiskMetrics представляет агрегированную статистику по закрытым позициям
type RiskMetrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`      // доля прибыльных сделок [0, 1]
	AvgProfit     float64 `json:"avg_profit"`    // средняя прибыль выигрышных
	AvgLoss       float64 `json:"avg_loss"`      // средний убыток проигрышных (отрицательный)
	ProfitFactor  float64 `json:"profit_factor"` // |avg_profit / avg_loss|, 0 если нет убытков
	TotalPnl      float64 `json:"total_pnl"`
}

// TradeRecord представляет завершённую сделку для сохранения в БД
type TradeRecord struct {
	ID          int       `json:"id" db:"id"`
	Pair        string    `json:"pair" db:"pair"`
	Quantity1   float64   `json:"quantity1" db:"quantity1"`
	Quantity2   float64   `json:"quantity2" db:"quantity2"`
	EntryPrice1 float64   `json:"entry_price1" db:"entry_price1"`
	EntryPrice2 float64   `json:"entry_price2" db:"entry_price2"`
	ExitPrice1  float64   `json:"exit_price1" db:"exit_price1"`
	ExitPrice2  float64   `json:"exit_price2" db:"exit_price2"`
	EntryZScore float64   `json:"entry_zscore" db:"entry_zscore"`
	Pnl         float64   `json:"pnl" db:"pnl"`
	Reason      string    `json:"reason" db:"reason"` // convergence, stop_loss
	OpenedAt    time.Time `json:"opened_at" db:"opened_at"`
	ClosedAt    time.Time `json:"closed_at" db:"closed_at"`
}

// AccountSummary представляет сводку по счёту для API
type AccountSummary struct {
	Balance       float64     `json:"balance"`
	OpenPositions []*Position `json:"open_positions"`
	RealizedPnl   float64     `json:"realized_pnl"`
	Metrics       RiskMetrics `json:"metrics"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// PricePoint представляет одну точку ценового ряда
type PricePoint struct {
	Asset     string    `json:"asset" db:"asset"`
	Price     float64   `json:"price" db:"price"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
