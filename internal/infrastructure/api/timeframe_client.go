package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/fx-timeseries-export/internal/domain/entity"
	"github.com/damon-houk/fx-timeseries-export/internal/infrastructure/logger"
)

const (
	defaultBaseURL = "https://api.exchangerate.host"
	timeframePath  = "/timeframe"
)

// TimeframeClient fetches historical rate series from an exchangerate.host
// style timeframe endpoint. One request per query, no retries.
type TimeframeClient struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	logger     logger.Logger
}

// NewTimeframeClient creates a new timeframe API client
func NewTimeframeClient(baseURL, accessKey string, httpClient *http.Client, log logger.Logger) *TimeframeClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TimeframeClient{
		baseURL:    baseURL,
		accessKey:  accessKey,
		httpClient: httpClient,
		logger:     log,
	}
}

// timeframeResponse covers both envelope shapes the upstream is known to use:
// "rates" with plain currency keys and "quotes" with pair keys like USDEUR.
type timeframeResponse struct {
	Success *bool                         `json:"success,omitempty"`
	Error   *apiError                     `json:"error,omitempty"`
	Rates   map[string]map[string]float64 `json:"rates,omitempty"`
	Quotes  map[string]map[string]float64 `json:"quotes,omitempty"`
}

type apiError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

// FetchTimeframe retrieves the raw series for the given currencies over the
// given inclusive range. The response is normalized into RawSeries regardless
// of which envelope the upstream answered with.
func (c *TimeframeClient) FetchTimeframe(ctx context.Context, currencies []string, rng entity.DateRange) (entity.RawSeries, error) {
	reqURL, err := c.buildURL(currencies, rng)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	c.logger.Debug("Calling timeframe endpoint", map[string]interface{}{
		"currencies": currencies,
		"start":      rng.Start.Format(entity.ISODate),
		"end":        rng.End.Format(entity.ISODate),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned error status: %d, body: %s", resp.StatusCode, truncate(body, 512))
	}

	var tf timeframeResponse
	if err := json.Unmarshal(body, &tf); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedSeries, err)
	}

	if tf.Success != nil && !*tf.Success {
		info := "unknown error"
		if tf.Error != nil && tf.Error.Info != "" {
			info = tf.Error.Info
		}
		return nil, fmt.Errorf("API error: %s", info)
	}

	switch {
	case tf.Rates != nil:
		return entity.RawSeries(tf.Rates), nil
	case tf.Quotes != nil:
		return splitQuotePairs(tf.Quotes), nil
	default:
		return nil, fmt.Errorf("%w: response has neither rates nor quotes", entity.ErrMalformedSeries)
	}
}

func (c *TimeframeClient) buildURL(currencies []string, rng entity.DateRange) (string, error) {
	u, err := url.Parse(c.baseURL + timeframePath)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	q.Set("start_date", rng.Start.Format(entity.ISODate))
	q.Set("end_date", rng.End.Format(entity.ISODate))
	if len(currencies) > 0 {
		q.Set("currencies", strings.Join(currencies, ","))
	}
	if c.accessKey != "" {
		q.Set("access_key", c.accessKey)
	}
	q.Set("format", "1")

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// splitQuotePairs turns pair-keyed day blocks like {"USDEUR": 0.91} into
// currency-keyed ones; the last three letters of the pair are the currency.
func splitQuotePairs(quotes map[string]map[string]float64) entity.RawSeries {
	series := make(entity.RawSeries, len(quotes))

	for date, block := range quotes {
		day := make(map[string]float64, len(block))
		for pair, rate := range block {
			if len(pair) < 3 {
				continue
			}
			day[pair[len(pair)-3:]] = rate
		}
		series[date] = day
	}

	return series
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
