package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"statarb/internal/bot"
	"statarb/internal/models"
)

// OrderHandler обрабатывает HTTP запросы для журнала ордеров.
//
// Endpoints:
// - GET /api/v1/orders?limit=N - последние ордера, новые первыми
// - GET /api/v1/orders/{id} - ордер по идентификатору
type OrderHandler struct {
	orders *bot.OrderLedger
}

// NewOrderHandler создает новый OrderHandler с внедрением зависимостей
func NewOrderHandler(orders *bot.OrderLedger) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetOrders возвращает последние ордера.
//
// GET /api/v1/orders?limit=N
//
// Query Parameters:
// - limit (optional): количество ордеров (по умолчанию 50, максимум 200)
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		writeError(w, http.StatusInternalServerError, "order ledger not initialized", "")
		return
	}

	limit := queryLimit(r, 50, 200)

	orders := h.orders.List(limit)
	if orders == nil {
		orders = []models.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetOrder возвращает ордер по идентификатору.
//
// GET /api/v1/orders/{id}
//
// Response 404 Not Found:
//
//	{"error": "order not found"}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		writeError(w, http.StatusInternalServerError, "order ledger not initialized", "")
		return
	}

	id := mux.Vars(r)["id"]

	order, ok := h.orders.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found", "")
		return
	}

	writeJSON(w, http.StatusOK, order)
}
