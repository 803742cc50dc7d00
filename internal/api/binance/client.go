package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpclient "github.com/SheenyxX/Trading-Project/internal/platform/http"
	"github.com/SheenyxX/Trading-Project/internal/model"
)

// maxKlineLimit is the largest number of klines Binance returns per request.
const maxKlineLimit = 1000

// Client is the Binance market data client. Only public endpoints are used,
// so no API key is required.
type Client struct {
	baseURL    string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client.
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Binance market data client.
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = "https://api.binance.com"
	}

	return &Client{
		baseURL: options.BaseURL,
		httpClient: httpclient.NewClient(httpclient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "binance_client").Logger(),
	}
}

// GetDailyCandles fetches up to `days` daily candles for the symbol, ordered
// oldest first with strictly increasing timestamps.
func (c *Client) GetDailyCandles(ctx context.Context, symbol string, days int) (model.Series, error) {
	if days > maxKlineLimit {
		c.logger.Warn().Int("requested", days).Int("limit", maxKlineLimit).
			Msg("Lookback capped to the kline request limit")
		days = maxKlineLimit
	}

	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=1d&limit=%d", c.baseURL, symbol, days)
	c.logger.Debug().Str("url", url).Msg("Fetching candles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing klines JSON")
		return nil, fmt.Errorf("parsing klines: %w", err)
	}

	candles := make([]model.Candle, 0, len(raw))
	for i, k := range raw {
		candle, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("parsing kline %d: %w", i, err)
		}
		candles = append(candles, candle)
	}

	// Binance returns klines oldest first, but the series contract demands
	// strict chronological order, so make it explicit before validating.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].OpenTime.Before(candles[j].OpenTime)
	})

	series, err := model.NewSeries(candles)
	if err != nil {
		return nil, fmt.Errorf("validating fetched series: %w", err)
	}

	c.logger.Info().Str("symbol", symbol).Int("candles", len(series)).Msg("Fetched daily candles")
	return series, nil
}

// parseKline decodes one kline entry. The payload is an array mixing a
// millisecond timestamp with decimal strings:
// [openTime, open, high, low, close, volume, closeTime, ...].
func parseKline(k []json.RawMessage) (model.Candle, error) {
	if len(k) < 6 {
		return model.Candle{}, fmt.Errorf("kline has %d fields, want at least 6", len(k))
	}

	var openTimeMs int64
	if err := json.Unmarshal(k[0], &openTimeMs); err != nil {
		return model.Candle{}, fmt.Errorf("open time: %w", err)
	}

	prices := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		var s string
		if err := json.Unmarshal(k[i], &s); err != nil {
			return model.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		prices[i-1] = v
	}

	return model.Candle{
		OpenTime: time.UnixMilli(openTimeMs).UTC(),
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		Volume:   prices[4],
	}, nil
}
