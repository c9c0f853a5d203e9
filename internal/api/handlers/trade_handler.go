package handlers

import (
	"net/http"
	"time"

	"statarb/internal/models"
	"statarb/pkg/utils"
)

// TradeSource предоставляет историю сделок из долговременного хранилища
type TradeSource interface {
	GetRecent(limit int) ([]*models.TradeRecord, error)
	GetClosedInTimeRange(from, to time.Time) ([]*models.TradeRecord, error)
	TotalPnl() (float64, error)
}

// TradeHandler обрабатывает HTTP запросы для истории сделок.
//
// Endpoints:
// - GET /api/v1/trades?limit=N&period=day - сделки с суммарным PnL
type TradeHandler struct {
	trades TradeSource
}

// NewTradeHandler создает новый TradeHandler с внедрением зависимостей
func NewTradeHandler(trades TradeSource) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// GetTrades возвращает сделки из хранилища.
//
// GET /api/v1/trades?limit=N&period=day
//
// Query Parameters:
// - limit (optional): количество сделок (по умолчанию 50, максимум 200)
// - period (optional): day/week/month/all - отчётный период вместо limit,
//   PnL в ответе считается только по сделкам периода
//
// Response 200 OK:
//
//	{
//	  "trades": [...],
//	  "total_pnl": 1234.5
//	}
//
// Response 400 Bad Request:
//
//	{"error": "invalid period"}
//
// Response 500 Internal Server Error:
//
//	{"error": "failed to get trades", "details": "..."}
func (h *TradeHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	if h.trades == nil {
		writeError(w, http.StatusInternalServerError, "trade store not initialized", "")
		return
	}

	if period := r.URL.Query().Get("period"); period != "" {
		h.getTradesForPeriod(w, period)
		return
	}

	limit := queryLimit(r, 50, 200)

	trades, err := h.trades.GetRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get trades", err.Error())
		return
	}
	if trades == nil {
		trades = []*models.TradeRecord{}
	}

	totalPnl, err := h.trades.TotalPnl()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get total pnl", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trades":    trades,
		"total_pnl": totalPnl,
	})
}

// getTradesForPeriod отдаёт сделки отчётного периода.
// PnL считается по выбранным сделкам, а не по всей истории.
func (h *TradeHandler) getTradesForPeriod(w http.ResponseWriter, period string) {
	if !utils.IsValidPeriod(period) {
		writeError(w, http.StatusBadRequest, "invalid period", "expected day, week, month or all")
		return
	}

	tr := utils.GetPeriodRange(utils.PeriodType(period))
	trades, err := h.trades.GetClosedInTimeRange(tr.Start, tr.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get trades", err.Error())
		return
	}
	if trades == nil {
		trades = []*models.TradeRecord{}
	}

	var periodPnl float64
	for _, trade := range trades {
		periodPnl += trade.Pnl
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trades":    trades,
		"period":    period,
		"total_pnl": periodPnl,
	})
}
