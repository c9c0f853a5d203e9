package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("asset") != "BTC/USDT" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"asset":"BTC/USDT","points":[
			{"timestamp":"2026-01-10T12:00:00Z","price":50100.0},
			{"timestamp":"2026-01-10T12:01:00Z","price":50200.0},
			{"timestamp":"2026-01-10T12:02:00Z","price":50300.0}]}`))
	})
	mux.HandleFunc("/prices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prices":{"BTC/USDT":50000.0,"ETH/USDT":3000.0}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestRESTDataProvider_GetPriceSeries проверяет чтение ценового ряда
func TestRESTDataProvider_GetPriceSeries(t *testing.T) {
	server := newTestServer(t)
	provider := NewRESTDataProvider(server.URL)

	series, err := provider.GetPriceSeries(context.Background(), "BTC/USDT", 3)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	expected := []float64{50100.0, 50200.0, 50300.0}
	if len(series) != len(expected) {
		t.Fatalf("Длина ряда = %d, ожидалось %d", len(series), len(expected))
	}
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, price := range expected {
		if series[i].Price != price {
			t.Errorf("series[%d].Price = %f, ожидалось %f", i, series[i].Price, price)
		}
		want := base.Add(time.Duration(i) * time.Minute)
		if !series[i].Timestamp.Equal(want) {
			t.Errorf("series[%d].Timestamp = %v, ожидалось %v", i, series[i].Timestamp, want)
		}
	}
}

// TestRESTDataProvider_GetCurrentPrices проверяет чтение текущих цен
func TestRESTDataProvider_GetCurrentPrices(t *testing.T) {
	server := newTestServer(t)
	provider := NewRESTDataProvider(server.URL)

	prices, err := provider.GetCurrentPrices(context.Background(), []string{"BTC/USDT", "ETH/USDT"})
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if prices["BTC/USDT"] != 50000.0 {
		t.Errorf("Цена BTC = %f, ожидалось 50000.0", prices["BTC/USDT"])
	}
	if prices["ETH/USDT"] != 3000.0 {
		t.Errorf("Цена ETH = %f, ожидалось 3000.0", prices["ETH/USDT"])
	}
}

// TestRESTDataProvider_HTTPError проверяет обработку ошибочного статуса
func TestRESTDataProvider_HTTPError(t *testing.T) {
	server := newTestServer(t)
	provider := NewRESTDataProvider(server.URL)

	_, err := provider.GetPriceSeries(context.Background(), "UNKNOWN", 10)
	if err == nil {
		t.Fatal("Ожидалась ошибка для неизвестного актива")
	}

	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("Ожидался CallError, получен %T", err)
	}
	if callErr.Gateway != "rest" {
		t.Errorf("Gateway = %s, ожидалось rest", callErr.Gateway)
	}
}

// TestRESTDataProvider_ContextCancellation проверяет отмену запроса контекстом
func TestRESTDataProvider_ContextCancellation(t *testing.T) {
	server := newTestServer(t)
	provider := NewRESTDataProvider(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.GetPriceSeries(ctx, "BTC/USDT", 10)
	if err == nil {
		t.Fatal("Ожидалась ошибка отменённого контекста")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Ожидалась context.Canceled в цепочке, получено %v", err)
	}
}
