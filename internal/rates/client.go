package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/baharkarakas/wallet-api/internal/config"
	"github.com/baharkarakas/wallet-api/internal/metrics"
	"github.com/baharkarakas/wallet-api/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Client looks up current ask rates in the NBP table C.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log.Named("nbp"),
	}
}

// NewFromConfig wires the client with the configured URL, timeout and
// connection limit.
func NewFromConfig(cfg config.Config, log *zap.Logger) *Client {
	hc := NewHTTPClient(
		WithTimeout(cfg.NBPTimeoutDuration()),
		WithMaxConns(cfg.NBPConnectionLimit),
	)
	return NewClient(cfg.NBPURL, hc, log)
}

type tableC struct {
	Code  string `json:"code"`
	Rates []struct {
		EffectiveDate string          `json:"effectiveDate"`
		Ask           decimal.Decimal `json:"ask"`
	} `json:"rates"`
}

// GetRate returns the latest ask rate for code. Errors are *LookupError.
func (c *Client) GetRate(ctx context.Context, code string) (rate models.Rate, err error) {
	code = strings.ToUpper(code)
	start := time.Now()
	defer func() {
		metrics.RateLookupLatency.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = KindOf(err).String()
		}
		metrics.RateLookupsTotal.WithLabelValues(result).Inc()
	}()

	reqURL := c.baseURL + "/exchangerates/rates/C/" + url.PathEscape(code) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Rate{}, transient(code, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("nbp request failed", zap.String("url", reqURL), zap.Error(err))
		return models.Rate{}, transient(code, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.log.Error("nbp read body", zap.String("url", reqURL), zap.Int("status", resp.StatusCode), zap.Error(err))
		return models.Rate{}, transient(code, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return models.Rate{}, unsupported(code)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logBadResponse(reqURL, resp.StatusCode, body)
		return models.Rate{}, transient(code, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	rate, err = parseTableC(code, body)
	if err != nil {
		c.logBadResponse(reqURL, resp.StatusCode, body)
		return models.Rate{}, transient(code, err)
	}
	return rate, nil
}

func (c *Client) logBadResponse(reqURL string, status int, body []byte) {
	c.log.Error("nbp request unsuccessful",
		zap.String("url", reqURL),
		zap.Int("status", status),
		zap.String("reason", http.StatusText(status)),
		zap.ByteString("body", body),
	)
}

func parseTableC(code string, body []byte) (models.Rate, error) {
	var data tableC
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Rate{}, fmt.Errorf("decode: %w", err)
	}
	if len(data.Rates) == 0 {
		return models.Rate{}, errors.New("empty rates list")
	}
	date, err := models.ParseDate(data.Rates[0].EffectiveDate)
	if err != nil {
		return models.Rate{}, fmt.Errorf("effective date: %w", err)
	}
	if data.Code != "" {
		code = strings.ToUpper(data.Code)
	}
	return models.Rate{Code: code, Ask: data.Rates[0].Ask, Date: date}, nil
}
