package handlers

import (
	"net/http"

	"statarb/internal/bot"
	"statarb/internal/models"
)

// PositionHandler обрабатывает HTTP запросы для журнала позиций.
//
// Endpoints:
// - GET /api/v1/positions - открытые позиции
// - GET /api/v1/positions/closed?limit=N - закрытые позиции, новые первыми
type PositionHandler struct {
	positions *bot.PositionLedger
}

// NewPositionHandler создает новый PositionHandler с внедрением зависимостей
func NewPositionHandler(positions *bot.PositionLedger) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// GetOpenPositions возвращает все открытые позиции.
//
// GET /api/v1/positions
func (h *PositionHandler) GetOpenPositions(w http.ResponseWriter, r *http.Request) {
	if h.positions == nil {
		writeError(w, http.StatusInternalServerError, "position ledger not initialized", "")
		return
	}

	positions := h.positions.OpenPositions()
	if positions == nil {
		positions = []models.Position{}
	}

	writeJSON(w, http.StatusOK, positions)
}

// GetClosedPositions возвращает закрытые позиции, новые первыми.
//
// GET /api/v1/positions/closed?limit=N
//
// Query Parameters:
// - limit (optional): количество позиций (по умолчанию 50, максимум 200)
func (h *PositionHandler) GetClosedPositions(w http.ResponseWriter, r *http.Request) {
	if h.positions == nil {
		writeError(w, http.StatusInternalServerError, "position ledger not initialized", "")
		return
	}

	limit := queryLimit(r, 50, 200)

	positions := h.positions.ClosedPositions(limit)
	if positions == nil {
		positions = []models.Position{}
	}

	writeJSON(w, http.StatusOK, positions)
}
