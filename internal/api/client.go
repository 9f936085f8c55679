package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/config"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/models"
	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/status"
)

// Headers de navegador que espera el endpoint de estado; sin ellos el
// upstream rechaza la consulta.
var statusHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9,de-DE;q=0.8,de;q=0.7",
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/141.0.0.0 Safari/537.36",
	"Origin":         "https://www.fotoparadies.de",
	"Referer":        "https://www.fotoparadies.de/",
	"DNT":            "1",
	"Connection":     "keep-alive",
	"Sec-Fetch-Dest": "empty",
	"Sec-Fetch-Mode": "cors",
	"Sec-Fetch-Site": "cross-site",
}

// orderInfoResponse es el subset del body del endpoint de estado que nos
// interesa.
type orderInfoResponse struct {
	SummaryStateCode string `json:"summaryStateCode"`
	SummaryStateText string `json:"summaryStateText"`
}

// StatusClient consulta el estado de un pedido contra la API de
// Fotoparadies. Una consulta por pedido, sin reintentos; el breaker corta
// en seco cuando el upstream viene fallando seguido.
type StatusClient struct {
	http     *http.Client
	base     string
	configID string
	breaker  *gobreaker.CircuitBreaker
}

func NewStatusClient(cfg *config.Config) *StatusClient {
	return &StatusClient{
		http:     &http.Client{Timeout: cfg.StatusTimeout},
		base:     cfg.StatusBaseURL,
		configID: cfg.ConfigID,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "fotoparadies-status",
			Timeout: 30 * time.Second,
		}),
	}
}

// FetchStatus consulta y normaliza el estado de un pedido. Cualquier falla
// (timeout, transporte, non-2xx, JSON inválido, breaker abierto) se
// convierte en un StatusResult con código vacío y el error embebido en el
// texto; nunca devuelve error.
func (c *StatusClient) FetchStatus(ctx context.Context, orderNumber, shopNumber string) models.StatusResult {
	fullOrderID := models.FullOrderID(orderNumber, shopNumber)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, fullOrderID)
	})
	if err != nil {
		slog.Warn("status fetch failed", "full_order_id", fullOrderID, "error", err)
		return models.StatusResult{
			Display: fmt.Sprintf("%s Error: %s", status.WarnGlyph, err.Error()),
		}
	}

	info := result.(*orderInfoResponse)
	statusText := info.SummaryStateText
	if statusText == "" {
		statusText = info.SummaryStateCode
		if statusText == "" {
			statusText = "Unknown"
		}
	}

	return models.StatusResult{
		RawCode: info.SummaryStateCode,
		RawText: info.SummaryStateText,
		Display: status.Decorate(info.SummaryStateCode, statusText),
	}
}

func (c *StatusClient) fetch(ctx context.Context, fullOrderID string) (*orderInfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	params := url.Values{}
	params.Set("config", c.configID)
	params.Set("fullOrderId", fullOrderID)
	req.URL.RawQuery = params.Encode()

	for k, v := range statusHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status endpoint error: status %d", resp.StatusCode)
	}

	var info orderInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("invalid JSON from status endpoint: %w", err)
	}

	return &info, nil
}
