package models

import "time"

// Position представляет позицию по паре в журнале позиций
//
// На пару одновременно может существовать не более одной открытой позиции.
// PNL рассчитывается один раз при закрытии по фактическим ценам исполнения.
type Position struct {
	ID          string     `json:"id"`
	Pair        string     `json:"pair"`
	Quantity1   float64    `json:"quantity1"` // подписанное количество актива 1
	Quantity2   float64    `json:"quantity2"` // подписанное количество актива 2
	EntryPrice1 float64    `json:"entry_price1"`
	EntryPrice2 float64    `json:"entry_price2"`
	ExitPrice1  float64    `json:"exit_price1,omitempty"`
	ExitPrice2  float64    `json:"exit_price2,omitempty"`
	EntryZScore float64    `json:"entry_zscore"`
	Status      string     `json:"status"` // open, closed
	RealizedPnl float64    `json:"realized_pnl"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// Статусы позиции
const (
	PositionStatusOpen   = "open"
	PositionStatusClosed = "closed"
)

// IsOpen возвращает true если позиция открыта
func (p *Position) IsOpen() bool {
	return p.Status == PositionStatusOpen
}

// CalculatePnl возвращает PNL по фактическим ценам входа и выхода
//
// Формула: (exit1 - entry1) * q1 + (exit2 - entry2) * q2
// Знаки количеств учитывают направление каждой ноги.
func (p *Position) CalculatePnl(exitPrice1, exitPrice2 float64) float64 {
	return (exitPrice1-p.EntryPrice1)*p.Quantity1 + (exitPrice2-p.EntryPrice2)*p.Quantity2
}
