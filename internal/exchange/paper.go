package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// PaperGateway — торговый шлюз для бумажной торговли. Ордера исполняются
// мгновенно по текущей цене источника данных, баланс ведётся в памяти.
// Используется, когда реальная торговля выключена, и в тестах.
type PaperGateway struct {
	mu      sync.Mutex
	data    MarketDataProvider
	balance float64
	nextID  int

	// failAssets содержит активы, ордера по которым искусственно отклоняются
	failAssets map[string]error
}

// NewPaperGateway создаёт бумажный шлюз с начальным балансом.
//
// Параметры:
//   - data: источник текущих цен для исполнения ордеров
//   - initialBalance: стартовый баланс в котируемой валюте
func NewPaperGateway(data MarketDataProvider, initialBalance float64) *PaperGateway {
	return &PaperGateway{
		data:       data,
		balance:    initialBalance,
		nextID:     1,
		failAssets: make(map[string]error),
	}
}

// GetName возвращает имя шлюза
func (g *PaperGateway) GetName() string {
	return "paper"
}

// GetBalance возвращает текущий бумажный баланс
func (g *PaperGateway) GetBalance(ctx context.Context) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.balance, nil
}

// SetBalance выставляет баланс напрямую (для тестов)
func (g *PaperGateway) SetBalance(balance float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.balance = balance
}

// FailOrdersFor заставляет шлюз отклонять ордера по активу с заданной
// ошибкой. Передача nil снимает инъекцию
func (g *PaperGateway) FailOrdersFor(asset string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failAssets, asset)
		return
	}
	g.failAssets[asset] = err
}

// PlaceMarketOrder исполняет рыночный ордер по текущей цене актива.
// Покупка уменьшает баланс, продажа увеличивает
func (g *PaperGateway) PlaceMarketOrder(ctx context.Context, asset, side string, qty float64) (*Fill, error) {
	if qty <= 0 {
		return nil, &CallError{
			Gateway: "paper",
			Op:      "place_market_order",
			Message: fmt.Sprintf("invalid quantity %v for %s", qty, asset),
		}
	}
	if side != SideBuy && side != SideSell {
		return nil, &CallError{
			Gateway: "paper",
			Op:      "place_market_order",
			Message: "invalid side " + side,
		}
	}

	g.mu.Lock()
	if injected, ok := g.failAssets[asset]; ok {
		g.mu.Unlock()
		return nil, &CallError{
			Gateway:  "paper",
			Op:       "place_market_order",
			Message:  "order rejected for " + asset,
			Original: injected,
		}
	}
	g.mu.Unlock()

	prices, err := g.data.GetCurrentPrices(ctx, []string{asset})
	if err != nil {
		return nil, &CallError{
			Gateway:  "paper",
			Op:       "place_market_order",
			Message:  "failed to price order for " + asset,
			Original: err,
		}
	}
	price, ok := prices[asset]
	if !ok || price <= 0 {
		return nil, &MissingPriceError{Asset: asset}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	notional := qty * price
	if side == SideBuy {
		g.balance -= notional
	} else {
		g.balance += notional
	}

	fill := &Fill{
		OrderID:   fmt.Sprintf("paper_%d", g.nextID),
		Asset:     asset,
		Side:      side,
		Quantity:  qty,
		Price:     price,
		Timestamp: time.Now().UTC(),
	}
	g.nextID++
	return fill, nil
}

// Close освобождает ресурсы. Для бумажного шлюза это no-op
func (g *PaperGateway) Close() error {
	return nil
}
