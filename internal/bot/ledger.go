package bot

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"statarb/internal/models"
)

// ============================================================
// Журнал ордеров
// ============================================================

// OrderLedger - журнал парных ордеров в памяти.
//
// Инварианты:
// - У каждого ордера ровно две ноги, привязанные к одной паре
// - Статус монотонен: из терминального состояния переходов нет
type OrderLedger struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	seq    int
}

// NewOrderLedger создает пустой журнал ордеров
func NewOrderLedger() *OrderLedger {
	return &OrderLedger{orders: make(map[string]*models.Order)}
}

// Create регистрирует новый парный ордер в статусе pending
func (l *OrderLedger) Create(pair, action string, leg1, leg2 models.OrderLeg, zscore float64) *models.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	now := time.Now().UTC()
	order := &models.Order{
		ID:        fmt.Sprintf("order_%d_%d", l.seq, now.Unix()),
		Pair:      pair,
		Action:    action,
		Leg1:      leg1,
		Leg2:      leg2,
		Status:    models.OrderStatusPending,
		ZScore:    zscore,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.orders[order.ID] = order
	copied := *order
	return &copied
}

// RecordLeg записывает результат исполнения одной ноги (1 или 2)
func (l *OrderLedger) RecordLeg(id string, legIndex int, leg models.OrderLeg) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	switch legIndex {
	case 1:
		order.Leg1 = leg
	case 2:
		order.Leg2 = leg
	default:
		return fmt.Errorf("order %s: invalid leg index %d", id, legIndex)
	}
	order.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateStatus переводит ордер в новый статус.
//
// Возвращает ошибку при попытке выхода из терминального статуса
func (l *OrderLedger) UpdateStatus(id, status string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return fmt.Errorf("order %s: status %s is terminal, cannot move to %s", id, order.Status, status)
	}

	now := time.Now().UTC()
	order.Status = status
	order.UpdatedAt = now
	if status == models.OrderStatusFilled {
		order.FilledAt = &now
	}
	return nil
}

// Get возвращает копию ордера по идентификатору
func (l *OrderLedger) Get(id string) (models.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, ok := l.orders[id]
	if !ok {
		return models.Order{}, false
	}
	return *order, true
}

// List возвращает копии ордеров, новые первыми. limit <= 0 — все
func (l *OrderLedger) List(limit int) []models.Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Order, 0, len(l.orders))
	for _, order := range l.orders {
		out = append(out, *order)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ============================================================
// Журнал позиций
// ============================================================

// PositionLedger - журнал позиций в памяти.
//
// Инварианты:
// - Не более одной открытой позиции на пару
// - Повторное открытие возвращает существующую позицию без изменений
// - Повторное закрытие — no-op
type PositionLedger struct {
	mu     sync.Mutex
	open   map[string]*models.Position
	closed []*models.Position
	seq    int
}

// NewPositionLedger создает пустой журнал позиций
func NewPositionLedger() *PositionLedger {
	return &PositionLedger{open: make(map[string]*models.Position)}
}

// Open открывает позицию по паре. Если позиция уже открыта,
// возвращает ее копию без изменений (идемпотентность)
func (l *PositionLedger) Open(pair string, qty1, qty2, entryPrice1, entryPrice2, entryZScore float64) models.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.open[pair]; ok {
		return *existing
	}

	l.seq++
	position := &models.Position{
		ID:          fmt.Sprintf("pos_%d_%d", l.seq, time.Now().Unix()),
		Pair:        pair,
		Quantity1:   qty1,
		Quantity2:   qty2,
		EntryPrice1: entryPrice1,
		EntryPrice2: entryPrice2,
		EntryZScore: entryZScore,
		Status:      models.PositionStatusOpen,
		OpenedAt:    time.Now().UTC(),
	}
	l.open[pair] = position
	return *position
}

// Close закрывает открытую позицию по паре, фиксируя PnL по фактическим
// ценам исполнения. Повторное закрытие — no-op: возвращается уже
// закрытая позиция без изменений и false
func (l *PositionLedger) Close(pair string, exitPrice1, exitPrice2 float64) (models.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	position, ok := l.open[pair]
	if !ok {
		// Последняя закрытая позиция пары, если была
		for i := len(l.closed) - 1; i >= 0; i-- {
			if l.closed[i].Pair == pair {
				return *l.closed[i], false
			}
		}
		return models.Position{}, false
	}

	now := time.Now().UTC()
	position.ExitPrice1 = exitPrice1
	position.ExitPrice2 = exitPrice2
	position.RealizedPnl = position.CalculatePnl(exitPrice1, exitPrice2)
	position.Status = models.PositionStatusClosed
	position.ClosedAt = &now

	delete(l.open, pair)
	l.closed = append(l.closed, position)
	return *position, true
}

// GetOpen возвращает копию открытой позиции по паре
func (l *PositionLedger) GetOpen(pair string) (models.Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	position, ok := l.open[pair]
	if !ok {
		return models.Position{}, false
	}
	return *position, true
}

// OpenPositions возвращает копии всех открытых позиций
func (l *PositionLedger) OpenPositions() []models.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Position, 0, len(l.open))
	for _, position := range l.open {
		out = append(out, *position)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// ClosedPositions возвращает копии закрытых позиций, новые первыми
func (l *PositionLedger) ClosedPositions(limit int) []models.Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Position, 0, len(l.closed))
	for i := len(l.closed) - 1; i >= 0; i-- {
		out = append(out, *l.closed[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// TotalRealizedPnl возвращает суммарный реализованный PnL
func (l *PositionLedger) TotalRealizedPnl() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total float64
	for _, position := range l.closed {
		total += position.RealizedPnl
	}
	return total
}
