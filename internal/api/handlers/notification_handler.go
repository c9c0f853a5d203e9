package handlers

import (
	"net/http"
	"strings"

	"statarb/internal/bot"
)

// NotificationHandler отвечает за журнал событий торгового цикла
//
// Endpoints:
// - GET /api/v1/notifications - получение списка событий
// - GET /api/v1/notifications?types=open,close,error - с фильтрацией по типам
// - GET /api/v1/notifications?limit=50 - с ограничением количества
// - DELETE /api/v1/notifications - очистка журнала
type NotificationHandler struct {
	alerts *bot.AlertSink
}

// NewNotificationHandler создает новый NotificationHandler с внедрением зависимости
func NewNotificationHandler(alerts *bot.AlertSink) *NotificationHandler {
	return &NotificationHandler{alerts: alerts}
}

// GetNotifications возвращает список событий с фильтрацией
//
// GET /api/v1/notifications
//
// Query параметры:
// - types (string): фильтр по типам через запятую (high_zscore,low_correlation,open,close,sl,error,second_leg_fail,drawdown)
// - limit (int): количество записей (по умолчанию 100, максимум 500)
//
// Response 200 OK:
//
//	{
//	  "notifications": [
//	    {
//	      "id": 42,
//	      "timestamp": "2026-01-10T12:00:00Z",
//	      "type": "SL",
//	      "severity": "warn",
//	      "pair": "BTC/USDT-ETH/USDT",
//	      "message": "stop loss triggered ..."
//	    }
//	  ],
//	  "total": 1
//	}
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	if h.alerts == nil {
		writeError(w, http.StatusInternalServerError, "alert sink not initialized", "")
		return
	}

	var types []string
	if typesParam := r.URL.Query().Get("types"); typesParam != "" {
		for _, t := range strings.Split(typesParam, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				types = append(types, t)
			}
		}
	}

	limit := queryLimit(r, 100, 500)

	notifications := h.alerts.Recent(types, limit)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"total":         len(notifications),
	})
}

// ClearNotifications очищает журнал событий
//
// DELETE /api/v1/notifications
//
// Response 200 OK:
//
//	{"message": "notifications cleared"}
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	if h.alerts == nil {
		writeError(w, http.StatusInternalServerError, "alert sink not initialized", "")
		return
	}

	h.alerts.Clear()

	writeJSON(w, http.StatusOK, SuccessResponse{Message: "notifications cleared"})
}
