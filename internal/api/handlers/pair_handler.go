package handlers

import (
	"net/http"
	"time"

	"statarb/internal/bot"
	"statarb/internal/models"
)

// PairHandler обрабатывает HTTP запросы для состояния торгуемых пар.
//
// Endpoints:
// - GET /api/v1/pairs - состояние машины сигналов по всем парам
type PairHandler struct {
	strategy bot.Strategy
}

// NewPairHandler создает новый PairHandler с внедрением зависимостей
func NewPairHandler(strategy bot.Strategy) *PairHandler {
	return &PairHandler{strategy: strategy}
}

// pairStateResponse - состояние одной пары в ответе API
type pairStateResponse struct {
	Pair        string               `json:"pair"`
	State       string               `json:"state"`
	Description string               `json:"description"`
	Position    *positionRefResponse `json:"position,omitempty"`
	Snapshot    *models.PairSnapshot `json:"snapshot,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// positionRefResponse - открытая позиция с точки зрения машины состояний
type positionRefResponse struct {
	Quantity1   float64 `json:"quantity1"`
	Quantity2   float64 `json:"quantity2"`
	EntryZScore float64 `json:"entry_zscore"`
}

// GetPairs возвращает состояние всех отслеживаемых пар.
//
// GET /api/v1/pairs
//
// Response 200 OK:
//
//	[
//	  {
//	    "pair": "BTC/USDT-ETH/USDT",
//	    "state": "short_spread",
//	    "description": "Короткая позиция по спреду",
//	    "position": {"quantity1": 1.0, "quantity2": -1.5, "entry_zscore": 2.5},
//	    "snapshot": {...},
//	    "updated_at": "2026-01-10T12:00:00Z"
//	  }
//	]
func (h *PairHandler) GetPairs(w http.ResponseWriter, r *http.Request) {
	if h.strategy == nil {
		writeError(w, http.StatusInternalServerError, "strategy not initialized", "")
		return
	}

	states := h.strategy.States()

	response := make([]pairStateResponse, 0, len(states))
	for pair, state := range states {
		item := pairStateResponse{
			Pair:        pair,
			State:       state.State,
			Description: bot.StateInfo(state.State),
			Snapshot:    state.LastSnapshot,
			UpdatedAt:   state.UpdatedAt,
		}
		if state.Position != nil {
			item.Position = &positionRefResponse{
				Quantity1:   state.Position.Quantity1,
				Quantity2:   state.Position.Quantity2,
				EntryZScore: state.Position.EntryZScore,
			}
		}
		response = append(response, item)
	}

	writeJSON(w, http.StatusOK, response)
}
