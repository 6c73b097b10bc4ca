// Package market fetches published NAVs and intraday estimates from the market data provider.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/metrics"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// Client is the market data surface used by the fund service.
type Client interface {
	// NavOnDate returns the NAV published for fundCode on date.
	NavOnDate(ctx context.Context, fundCode string, date time.Time) (float64, error)
	// Estimate returns the current intraday estimate of fundCode.
	Estimate(ctx context.Context, fundCode string) (model.FundEstimate, error)
	// Close releases idle connections.
	Close() error
}

// HTTPClient talks to a JSON market data provider.
//
// Values are located in the responses with jsonpath expressions, so the client does
// not depend on a particular provider schema. Outbound calls share one rate limiter.
type HTTPClient struct {
	httpClient      *http.Client
	baseURL         string
	navPath         string
	estimatePath    string
	estimateNavPath string
	token           string
	limiter         *rate.Limiter
	metrics         *metrics.Metrics
	now             func() time.Time
}

// NewHTTPClient creates a client from the market settings.
func NewHTTPClient(cfg config.MarketConfig, m *metrics.Metrics) *HTTPClient {
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	return &HTTPClient{
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		navPath:         cfg.NavPath,
		estimatePath:    cfg.EstimatePath,
		estimateNavPath: cfg.EstimateNavPath,
		token:           cfg.APIToken,
		limiter:         rate.NewLimiter(limit, 1),
		metrics:         m,
		now:             time.Now,
	}
}

// NavOnDate queries GET {base}/funds/{code}/nav?date=YYYY-MM-DD.
func (c *HTTPClient) NavOnDate(ctx context.Context, fundCode string, date time.Time) (float64, error) {
	endpoint := fmt.Sprintf("%s/funds/%s/nav?date=%s",
		c.baseURL, url.PathEscape(fundCode), model.DateOf(date).Format("2006-01-02"))

	doc, err := c.query(ctx, "nav", endpoint)
	if err != nil {
		return 0, err
	}

	nav, ok, err := extractFloat(c.navPath, doc)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: no nav for %s on %s", apperrors.ErrNavNotFound, fundCode, date.Format("2006-01-02"))
	}
	return nav, nil
}

// Estimate queries GET {base}/funds/{code}/estimate.
func (c *HTTPClient) Estimate(ctx context.Context, fundCode string) (model.FundEstimate, error) {
	endpoint := fmt.Sprintf("%s/funds/%s/estimate", c.baseURL, url.PathEscape(fundCode))

	doc, err := c.query(ctx, "estimate", endpoint)
	if err != nil {
		return model.FundEstimate{}, err
	}

	estimate := model.FundEstimate{
		FundCode:     fundCode,
		EstimateTime: c.now().In(model.MarketLocation),
	}
	if v, ok, err := extractFloat(c.estimatePath, doc); err != nil {
		return model.FundEstimate{}, err
	} else if ok {
		estimate.EstimatedNav = &v
	}
	if v, ok, err := extractFloat(c.estimateNavPath, doc); err != nil {
		return model.FundEstimate{}, err
	} else if ok {
		estimate.Nav = &v
	}
	return estimate, nil
}

// Close releases idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// query executes a rate limited GET and decodes the JSON body into a generic document.
func (c *HTTPClient) query(ctx context.Context, name, endpoint string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fund-holdings-backend")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.MarketRequest(name, "error")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.MarketRequest(name, "error")
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.metrics.MarketRequest(name, "not_found")
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, endpoint)
	case resp.StatusCode >= 300:
		c.metrics.MarketRequest(name, "error")
		return nil, fmt.Errorf("market provider returned %d for %s", resp.StatusCode, endpoint)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		c.metrics.MarketRequest(name, "error")
		return nil, fmt.Errorf("failed to decode market response: %w", err)
	}
	c.metrics.MarketRequest(name, "ok")
	return doc, nil
}

// extractFloat evaluates path against doc. A missing key or JSON null yields ok=false.
// Numbers may arrive as JSON numbers or numeric strings.
func extractFloat(path string, doc any) (float64, bool, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		// unknown keys surface as errors from jsonpath
		return 0, false, nil
	}
	// jsonpath may return a single value or a list of matches; keep the first one
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return 0, false, nil
		}
		v = list[0]
	}

	switch val := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return val, true, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false, fmt.Errorf("market value at %s is not numeric: %q", path, val)
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("market value at %s has unexpected type %T", path, v)
	}
}
