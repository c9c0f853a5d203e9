package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"statarb/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RESTDataProvider читает ценовые ряды из внешнего HTTP API.
//
// Ожидаемые endpoints:
//
//	GET {base}/series?asset=X&limit=N  -> {"asset": "X", "points": [{"timestamp": ..., "price": ..}]}
//	GET {base}/prices?assets=X,Y      -> {"prices": {"X": 1.0, "Y": 2.0}}
//
// Точки возвращаются источником в хронологическом порядке, от старых
// к новым, каждая с меткой времени. Активы без данных отсутствуют
// в ответе /prices
type RESTDataProvider struct {
	baseURL string
	client  *HTTPClient
}

// NewRESTDataProvider создает провайдер поверх глобального HTTP клиента
func NewRESTDataProvider(baseURL string) *RESTDataProvider {
	return NewRESTDataProviderWithClient(baseURL, GetGlobalHTTPClient())
}

// NewRESTDataProviderWithClient создает провайдер с заданным клиентом
func NewRESTDataProviderWithClient(baseURL string, client *HTTPClient) *RESTDataProvider {
	return &RESTDataProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// seriesResponse - ответ endpoint /series
type seriesResponse struct {
	Asset  string              `json:"asset"`
	Points []models.PricePoint `json:"points"`
}

// pricesResponse - ответ endpoint /prices
type pricesResponse struct {
	Prices map[string]float64 `json:"prices"`
}

// GetPriceSeries возвращает последние limit точек актива
func (p *RESTDataProvider) GetPriceSeries(ctx context.Context, asset string, limit int) ([]models.PricePoint, error) {
	query := url.Values{}
	query.Set("asset", asset)
	query.Set("limit", strconv.Itoa(limit))

	var response seriesResponse
	if err := p.getJSON(ctx, "/series", query, &response); err != nil {
		return nil, err
	}

	return response.Points, nil
}

// GetCurrentPrices возвращает последнюю цену каждого актива
func (p *RESTDataProvider) GetCurrentPrices(ctx context.Context, assets []string) (map[string]float64, error) {
	query := url.Values{}
	query.Set("assets", strings.Join(assets, ","))

	var response pricesResponse
	if err := p.getJSON(ctx, "/prices", query, &response); err != nil {
		return nil, err
	}

	if response.Prices == nil {
		response.Prices = map[string]float64{}
	}
	return response.Prices, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
func (p *RESTDataProvider) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := p.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &CallError{
			Gateway:  "rest",
			Op:       "build request " + path,
			Message:  err.Error(),
			Original: err,
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &CallError{
			Gateway:  "rest",
			Op:       "GET " + path,
			Message:  err.Error(),
			Original: err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &CallError{
			Gateway: "rest",
			Op:      "GET " + path,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &CallError{
			Gateway:  "rest",
			Op:       "decode " + path,
			Message:  err.Error(),
			Original: err,
		}
	}

	return nil
}
