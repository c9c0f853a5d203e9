package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"statarb/internal/models"
)

// stubData реализует MarketDataProvider с фиксированными ценами
type stubData struct {
	prices map[string]float64
	err    error
}

func (s *stubData) GetPriceSeries(ctx context.Context, asset string, limit int) ([]models.PricePoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	series := make([]models.PricePoint, limit)
	for i := range series {
		series[i] = models.PricePoint{
			Asset:     asset,
			Price:     s.prices[asset],
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return series, nil
}

func (s *stubData) GetCurrentPrices(ctx context.Context, assets []string) (map[string]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]float64, len(assets))
	for _, a := range assets {
		if p, ok := s.prices[a]; ok {
			out[a] = p
		}
	}
	return out, nil
}

func TestPaperGateway_PlaceMarketOrder(t *testing.T) {
	data := &stubData{prices: map[string]float64{"BTC/USDT": 50000.0}}
	gw := NewPaperGateway(data, 10000.0)
	ctx := context.Background()

	fill, err := gw.PlaceMarketOrder(ctx, "BTC/USDT", SideBuy, 0.1)
	if err != nil {
		t.Fatalf("Ошибка исполнения ордера: %v", err)
	}
	if fill.Price != 50000.0 {
		t.Errorf("Цена исполнения = %v, ожидалось 50000", fill.Price)
	}
	if fill.Quantity != 0.1 {
		t.Errorf("Количество = %v, ожидалось 0.1", fill.Quantity)
	}
	if fill.Side != SideBuy {
		t.Errorf("Сторона = %v, ожидалось buy", fill.Side)
	}
	if fill.OrderID == "" {
		t.Error("Идентификатор ордера не должен быть пустым")
	}

	// Покупка на 5000 должна уменьшить баланс до 5000
	balance, err := gw.GetBalance(ctx)
	if err != nil {
		t.Fatalf("Ошибка получения баланса: %v", err)
	}
	if balance != 5000.0 {
		t.Errorf("Баланс после покупки = %v, ожидалось 5000", balance)
	}

	// Продажа возвращает средства
	if _, err := gw.PlaceMarketOrder(ctx, "BTC/USDT", SideSell, 0.1); err != nil {
		t.Fatalf("Ошибка исполнения продажи: %v", err)
	}
	balance, _ = gw.GetBalance(ctx)
	if balance != 10000.0 {
		t.Errorf("Баланс после продажи = %v, ожидалось 10000", balance)
	}
}

func TestPaperGateway_OrderIDsSequential(t *testing.T) {
	data := &stubData{prices: map[string]float64{"ETH/USDT": 3000.0}}
	gw := NewPaperGateway(data, 100000.0)
	ctx := context.Background()

	first, _ := gw.PlaceMarketOrder(ctx, "ETH/USDT", SideBuy, 1.0)
	second, _ := gw.PlaceMarketOrder(ctx, "ETH/USDT", SideBuy, 1.0)

	if first.OrderID != "paper_1" {
		t.Errorf("Первый ID = %v, ожидалось paper_1", first.OrderID)
	}
	if second.OrderID != "paper_2" {
		t.Errorf("Второй ID = %v, ожидалось paper_2", second.OrderID)
	}
}

func TestPaperGateway_InvalidOrders(t *testing.T) {
	data := &stubData{prices: map[string]float64{"BTC/USDT": 50000.0}}
	gw := NewPaperGateway(data, 10000.0)
	ctx := context.Background()

	tests := []struct {
		name  string
		asset string
		side  string
		qty   float64
	}{
		{"нулевое количество", "BTC/USDT", SideBuy, 0},
		{"отрицательное количество", "BTC/USDT", SideSell, -1},
		{"неизвестная сторона", "BTC/USDT", "hold", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gw.PlaceMarketOrder(ctx, tt.asset, tt.side, tt.qty)
			if err == nil {
				t.Error("Ожидалась ошибка, получен nil")
			}
			var callErr *CallError
			if !errors.As(err, &callErr) {
				t.Errorf("Ожидалась CallError, получено %T", err)
			}
		})
	}
}

func TestPaperGateway_MissingPrice(t *testing.T) {
	data := &stubData{prices: map[string]float64{}}
	gw := NewPaperGateway(data, 10000.0)

	_, err := gw.PlaceMarketOrder(context.Background(), "XRP/USDT", SideBuy, 1.0)
	if err == nil {
		t.Fatal("Ожидалась ошибка при отсутствии цены")
	}
	var missing *MissingPriceError
	if !errors.As(err, &missing) {
		t.Fatalf("Ожидалась MissingPriceError, получено %T: %v", err, err)
	}
	if missing.Asset != "XRP/USDT" {
		t.Errorf("Актив в ошибке = %v, ожидалось XRP/USDT", missing.Asset)
	}
}

func TestPaperGateway_FailureInjection(t *testing.T) {
	data := &stubData{prices: map[string]float64{"BTC/USDT": 50000.0}}
	gw := NewPaperGateway(data, 10000.0)
	ctx := context.Background()

	injected := errors.New("exchange unavailable")
	gw.FailOrdersFor("BTC/USDT", injected)

	_, err := gw.PlaceMarketOrder(ctx, "BTC/USDT", SideBuy, 0.1)
	if !errors.Is(err, injected) {
		t.Errorf("Ожидалась инъецированная ошибка через errors.Is, получено %v", err)
	}

	// Баланс не должен меняться при отклонённом ордере
	balance, _ := gw.GetBalance(ctx)
	if balance != 10000.0 {
		t.Errorf("Баланс после отклонённого ордера = %v, ожидалось 10000", balance)
	}

	// Снятие инъекции восстанавливает исполнение
	gw.FailOrdersFor("BTC/USDT", nil)
	if _, err := gw.PlaceMarketOrder(ctx, "BTC/USDT", SideBuy, 0.1); err != nil {
		t.Errorf("Ошибка после снятия инъекции: %v", err)
	}
}

func TestCallError_Unwrap(t *testing.T) {
	original := errors.New("connection refused")
	err := &CallError{Gateway: "paper", Op: "get_balance", Message: "request failed", Original: original}

	if !errors.Is(err, original) {
		t.Error("errors.Is должен находить оригинальную ошибку")
	}
	want := "paper: get_balance: request failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, ожидалось %q", err.Error(), want)
	}
}
