package models

import "time"

// Order представляет двуногий ордер в журнале ордеров
//
// Ноги исполняются последовательно и независимо: отказ первой ноги
// не отменяет попытку второй. Статус ордера отражает совокупный
// результат обеих ног.
type Order struct {
	ID        string     `json:"id"`
	Pair      string     `json:"pair"`
	Action    string     `json:"action"` // buy_spread, sell_spread, close
	Leg1      OrderLeg   `json:"leg1"`
	Leg2      OrderLeg   `json:"leg2"`
	Status    string     `json:"status"` // pending, filled, partially_filled, rejected, cancelled
	ZScore    float64    `json:"zscore"` // z-score сигнала
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	FilledAt  *time.Time `json:"filled_at,omitempty"`
}

// OrderLeg представляет одну ногу ордера
type OrderLeg struct {
	Asset     string  `json:"asset"`
	Side      string  `json:"side"`     // buy, sell
	Quantity  float64 `json:"quantity"` // всегда положительное
	FillPrice float64 `json:"fill_price,omitempty"`
	Filled    bool    `json:"filled"`
	Error     string  `json:"error,omitempty"`
}

// Статусы ордера
const (
	OrderStatusPending         = "pending"
	OrderStatusFilled          = "filled"
	OrderStatusPartiallyFilled = "partially_filled"
	OrderStatusRejected        = "rejected"
	OrderStatusCancelled       = "cancelled"
)

// Стороны ордера
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// IsTerminalOrderStatus возвращает true для конечных статусов
//
// Из конечного статуса переходы запрещены: журнал ордеров
// отклоняет любое обновление уже завершённого ордера.
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusFilled, OrderStatusPartiallyFilled, OrderStatusRejected, OrderStatusCancelled:
		return true
	}
	return false
}

// SideForQuantity возвращает сторону ордера по знаку количества
func SideForQuantity(qty float64) string {
	if qty >= 0 {
		return SideBuy
	}
	return SideSell
}
