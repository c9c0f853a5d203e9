package handlers

import (
	"net/http"
	"time"

	"statarb/internal/bot"
	"statarb/pkg/utils"
)

// StatusHandler обрабатывает HTTP запросы для статуса торгового движка.
//
// Endpoints:
// - GET /api/v1/status - стратегия, время последнего цикла, аптайм
type StatusHandler struct {
	engine    *bot.Engine
	startedAt time.Time
}

// NewStatusHandler создает новый StatusHandler с внедрением зависимостей
func NewStatusHandler(engine *bot.Engine) *StatusHandler {
	return &StatusHandler{
		engine:    engine,
		startedAt: time.Now().UTC(),
	}
}

// GetStatus возвращает статус торгового движка.
//
// GET /api/v1/status
//
// Response 200 OK:
//
//	{
//	  "strategy": "pairs_trading",
//	  "last_cycle": "2026-01-10T12:00:00Z",
//	  "uptime_seconds": 3600,
//	  "uptime": "1h0m0s"
//	}
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		writeError(w, http.StatusInternalServerError, "engine not initialized", "")
		return
	}

	uptime := time.Since(h.startedAt)
	response := map[string]interface{}{
		"strategy":       h.engine.Strategy().Name(),
		"uptime_seconds": int64(uptime.Seconds()),
		"uptime":         utils.FormatDuration(uptime),
	}

	lastCycle := h.engine.LastCycle()
	if !lastCycle.IsZero() {
		response["last_cycle"] = lastCycle
	}

	writeJSON(w, http.StatusOK, response)
}
