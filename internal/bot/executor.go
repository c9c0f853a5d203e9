package bot

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"statarb/internal/exchange"
	"statarb/internal/models"
	"statarb/pkg/utils"
)

// ExecutionCoordinator исполняет торговые сигналы как парные ордера.
//
// Жизненный цикл ордера: pending → нога 1 → нога 2 → filled, если
// исполнены обе ноги. Ноги подаются последовательно, вторая подается
// независимо от результата первой. При асимметричном исполнении
// (одна нога исполнена, вторая нет) ордер помечается partially_filled,
// позиция НЕ записывается в журнал, и возвращается LegFailureError
// с деталями исполненной ноги. Компенсирующих сделок нет — решение
// остается за вызывающим кодом
type ExecutionCoordinator struct {
	gateway   exchange.Gateway
	data      exchange.MarketDataProvider
	risk      *RiskManager
	orders    *OrderLedger
	positions *PositionLedger
	logger    *utils.Logger
}

// NewExecutionCoordinator создает координатор исполнения
func NewExecutionCoordinator(
	gateway exchange.Gateway,
	data exchange.MarketDataProvider,
	risk *RiskManager,
	logger *utils.Logger,
) *ExecutionCoordinator {
	return &ExecutionCoordinator{
		gateway:   gateway,
		data:      data,
		risk:      risk,
		orders:    NewOrderLedger(),
		positions: NewPositionLedger(),
		logger:    logger.WithComponent("executor"),
	}
}

// Orders возвращает журнал ордеров
func (c *ExecutionCoordinator) Orders() *OrderLedger {
	return c.orders
}

// Positions возвращает журнал позиций
func (c *ExecutionCoordinator) Positions() *PositionLedger {
	return c.positions
}

// Execute исполняет actionable-сигнал для пары.
//
// Возвращает итоговый ордер. При сигнале hold возвращает (nil, nil).
// Ошибки цен и баланса не меняют состояния журналов
func (c *ExecutionCoordinator) Execute(ctx context.Context, pair models.PairConfig, signal *models.TradeSignal) (*models.Order, error) {
	if signal == nil || !signal.IsActionable() {
		return nil, nil
	}

	prices, err := c.data.GetCurrentPrices(ctx, []string{pair.Asset1, pair.Asset2})
	if err != nil {
		return nil, fmt.Errorf("resolve prices for %s: %w", pair.Name, err)
	}
	price1, ok1 := prices[pair.Asset1]
	price2, ok2 := prices[pair.Asset2]
	if !ok1 || price1 <= 0 {
		return nil, &exchange.MissingPriceError{Asset: pair.Asset1}
	}
	if !ok2 || price2 <= 0 {
		return nil, &exchange.MissingPriceError{Asset: pair.Asset2}
	}

	qty1, qty2 := signal.Quantity1, signal.Quantity2

	// Размер входа ограничивается риск-менеджером; обе ноги масштабируются
	// одним коэффициентом, чтобы сохранить коэффициент хеджирования.
	// Закрытие не масштабируется: оно обнуляет открытую позицию целиком
	if signal.IsEntry() {
		balance, err := c.gateway.GetBalance(ctx)
		if err != nil {
			return nil, &exchange.CallError{
				Gateway:  c.gateway.GetName(),
				Op:       "get_balance",
				Message:  "failed to size order for " + pair.Name,
				Original: err,
			}
		}
		approved := c.risk.PositionSize(balance)
		notional := math.Abs(qty1)*price1 + math.Abs(qty2)*price2
		if notional > approved && notional > 0 {
			scale := approved / notional
			qty1 *= scale
			qty2 *= scale
		}
		if qty1 == 0 || qty2 == 0 {
			return nil, fmt.Errorf("pair %s: approved position size too small", pair.Name)
		}
	}

	order := c.orders.Create(pair.Name, signal.Action,
		models.OrderLeg{Asset: pair.Asset1, Side: models.SideForQuantity(qty1), Quantity: math.Abs(qty1)},
		models.OrderLeg{Asset: pair.Asset2, Side: models.SideForQuantity(qty2), Quantity: math.Abs(qty2)},
		signal.ZScore)

	// Ноги подаются последовательно; вторая — независимо от первой
	fill1, err1 := c.placeLeg(ctx, order.ID, 1, pair.Asset1, qty1)
	fill2, err2 := c.placeLeg(ctx, order.ID, 2, pair.Asset2, qty2)

	switch {
	case err1 != nil && err2 != nil:
		_ = c.orders.UpdateStatus(order.ID, models.OrderStatusRejected)
		c.logger.Error("Обе ноги отклонены",
			utils.Pair(pair.Name),
			utils.OrderID(order.ID),
			zap.NamedError("leg1_error", err1),
			zap.NamedError("leg2_error", err2))
		return c.finished(order.ID), fmt.Errorf("pair %s: both legs failed: leg1: %v; leg2: %w", pair.Name, err1, err2)

	// Односторонний провал помечается как частичное исполнение, а не отказ:
	// одна нога уже прошла, и это нужно видеть в журнале ордеров
	case err1 != nil:
		_ = c.orders.UpdateStatus(order.ID, models.OrderStatusPartiallyFilled)
		return c.finished(order.ID), &LegFailureError{Pair: pair.Name, FailedLeg: 1, FilledLeg: fill2, Original: err1}

	case err2 != nil:
		_ = c.orders.UpdateStatus(order.ID, models.OrderStatusPartiallyFilled)
		return c.finished(order.ID), &LegFailureError{Pair: pair.Name, FailedLeg: 2, FilledLeg: fill1, Original: err2}
	}

	_ = c.orders.UpdateStatus(order.ID, models.OrderStatusFilled)

	// Журнал позиций обновляется только по фактическим ценам исполнения
	if signal.IsEntry() {
		position := c.positions.Open(pair.Name, qty1, qty2, fill1.Price, fill2.Price, signal.ZScore)
		c.logger.Info("Позиция открыта",
			utils.Pair(pair.Name),
			utils.OrderID(order.ID),
			utils.Quantity(qty1),
			utils.Price(fill1.Price),
			utils.ZScore(signal.ZScore),
			zap.String("position_id", position.ID))
	} else {
		position, closed := c.positions.Close(pair.Name, fill1.Price, fill2.Price)
		if closed {
			c.logger.Info("Позиция закрыта",
				utils.Pair(pair.Name),
				utils.OrderID(order.ID),
				utils.PNL(position.RealizedPnl),
				zap.String("reason", signal.Reason))
		}
	}

	return c.finished(order.ID), nil
}

// placeLeg подает одну ногу и записывает результат в журнал ордеров
func (c *ExecutionCoordinator) placeLeg(ctx context.Context, orderID string, legIndex int, asset string, qty float64) (*exchange.Fill, error) {
	side := models.SideForQuantity(qty)
	fill, err := c.gateway.PlaceMarketOrder(ctx, asset, side, math.Abs(qty))
	leg := models.OrderLeg{Asset: asset, Side: side, Quantity: math.Abs(qty)}
	if err != nil {
		leg.Error = err.Error()
	} else {
		leg.Filled = true
		leg.FillPrice = fill.Price
	}
	_ = c.orders.RecordLeg(orderID, legIndex, leg)
	return fill, err
}

// finished возвращает актуальную копию ордера из журнала
func (c *ExecutionCoordinator) finished(orderID string) *models.Order {
	order, ok := c.orders.Get(orderID)
	if !ok {
		return nil
	}
	return &order
}
