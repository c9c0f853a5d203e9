package handlers

import (
	"net/http"
	"time"

	"statarb/internal/bot"
	"statarb/internal/exchange"
	"statarb/internal/models"
)

// AccountHandler обрабатывает HTTP запросы для сводки по счёту.
//
// Endpoints:
// - GET /api/v1/account - баланс, открытые позиции, реализованный PnL, метрики
type AccountHandler struct {
	gateway   exchange.Gateway
	risk      *bot.RiskManager
	positions *bot.PositionLedger
}

// NewAccountHandler создает новый AccountHandler с внедрением зависимостей
func NewAccountHandler(gateway exchange.Gateway, risk *bot.RiskManager, positions *bot.PositionLedger) *AccountHandler {
	return &AccountHandler{
		gateway:   gateway,
		risk:      risk,
		positions: positions,
	}
}

// GetAccount возвращает сводку по счёту.
//
// GET /api/v1/account
//
// Response 200 OK:
//
//	{
//	  "balance": 10000.0,
//	  "open_positions": [...],
//	  "realized_pnl": 120.5,
//	  "metrics": {"total_trades": 4, "win_rate": 0.5, ...},
//	  "updated_at": "2026-01-10T12:00:00Z"
//	}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil || h.positions == nil {
		writeError(w, http.StatusInternalServerError, "account dependencies not initialized", "")
		return
	}

	balance, err := h.gateway.GetBalance(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to get balance", err.Error())
		return
	}

	open := h.positions.OpenPositions()
	openRefs := make([]*models.Position, 0, len(open))
	for i := range open {
		openRefs = append(openRefs, &open[i])
	}

	// Метрики считаются по закрытым позициям
	closed := h.positions.ClosedPositions(0)
	trades := make([]models.TradeRecord, 0, len(closed))
	for _, p := range closed {
		trades = append(trades, models.TradeRecord{
			Pair:        p.Pair,
			Quantity1:   p.Quantity1,
			Quantity2:   p.Quantity2,
			EntryPrice1: p.EntryPrice1,
			EntryPrice2: p.EntryPrice2,
			ExitPrice1:  p.ExitPrice1,
			ExitPrice2:  p.ExitPrice2,
			EntryZScore: p.EntryZScore,
			Pnl:         p.RealizedPnl,
		})
	}

	var metrics models.RiskMetrics
	if h.risk != nil {
		metrics = h.risk.CalculateRiskMetrics(trades)
	}

	summary := models.AccountSummary{
		Balance:       balance,
		OpenPositions: openRefs,
		RealizedPnl:   h.positions.TotalRealizedPnl(),
		Metrics:       metrics,
		UpdatedAt:     time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, summary)
}
