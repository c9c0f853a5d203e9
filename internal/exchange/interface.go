// Package exchange предоставляет источники рыночных данных и торговые шлюзы.
package exchange

import (
	"context"
	"fmt"
	"time"

	"statarb/internal/models"
)

// MarketDataProvider определяет источник рыночных данных для анализа пар.
// Реализации: PriceRepository (история из PostgreSQL), RESTDataProvider
// (внешний HTTP API).
type MarketDataProvider interface {
	// GetPriceSeries возвращает последние limit точек актива в хронологическом
	// порядке (самая старая первая). Метки времени обязательны: по ним
	// аналитика сопоставляет точки двух активов между собой
	GetPriceSeries(ctx context.Context, asset string, limit int) ([]models.PricePoint, error)

	// GetCurrentPrices возвращает текущие цены для набора активов.
	// Отсутствие цены хотя бы одного актива считается ошибкой
	GetCurrentPrices(ctx context.Context, assets []string) (map[string]float64, error)
}

// Gateway определяет торговый шлюз для исполнения рыночных ордеров
type Gateway interface {
	// GetName возвращает имя шлюза ("paper", "live")
	GetName() string

	// GetBalance получает доступный баланс аккаунта в котируемой валюте
	GetBalance(ctx context.Context) (float64, error)

	// PlaceMarketOrder размещает рыночный ордер и возвращает исполнение.
	// Количество всегда положительное, направление задаётся стороной
	PlaceMarketOrder(ctx context.Context, asset, side string, qty float64) (*Fill, error)

	// Close освобождает ресурсы шлюза
	Close() error
}

// Fill содержит результат исполнения рыночного ордера
type Fill struct {
	OrderID   string    `json:"order_id"`
	Asset     string    `json:"asset"`
	Side      string    `json:"side"` // "buy" или "sell"
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"` // средняя цена исполнения
	Timestamp time.Time `json:"timestamp"`
}

// Ticker содержит текущую цену актива
type Ticker struct {
	Asset     string    `json:"asset"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// MissingPriceError возвращается, когда для актива нет актуальной цены
type MissingPriceError struct {
	Asset string
}

func (e *MissingPriceError) Error() string {
	return "no price available for " + e.Asset
}

// CallError представляет ошибку вызова шлюза или источника данных
type CallError struct {
	Gateway  string
	Op       string
	Message  string
	Original error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Gateway, e.Op, e.Message)
}

// Unwrap возвращает оригинальную ошибку для поддержки errors.Is() и errors.As()
func (e *CallError) Unwrap() error {
	return e.Original
}

// Side constants for orders
const (
	SideBuy  = "buy"  // покупка
	SideSell = "sell" // продажа
)
