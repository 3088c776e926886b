package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api"
	DefaultTimeout = 5 * time.Second
	healthTimeout  = 2 * time.Second
)

type Config struct {
	BaseURL          string
	Timeout          time.Duration
	BreakerFailures  uint32        // consecutive failures that open the breaker
	BreakerOpenDelay time.Duration // how long the breaker stays open
}

// Client talks to the storefront REST backend. Transport failures and 5xx
// answers count against a circuit breaker so an unreachable backend fails fast
// and callers can move to their fallbacks.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	baseURL string
	logger  *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerOpenDelay <= 0 {
		cfg.BreakerOpenDelay = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if token := TokenFromContext(r.Context()); token != "" {
			r.SetAuthToken(token)
		}
		return nil
	})

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:    "backend",
		Timeout: cfg.BreakerOpenDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Client{
		http:    rc,
		breaker: breaker,
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do runs the request through the breaker and converts non-2xx answers to *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	resp, err := c.breaker.Execute(func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if body != nil {
			req.SetBody(body)
		}
		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, apiError(resp)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return resp, fmt.Errorf("%s %s: %w", method, path, apiError(resp))
	}
	return resp, nil
}

// CheckHealth reports whether the backend answers the product listing within
// two seconds. It bypasses the breaker.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	resp, err := c.http.R().SetContext(ctx).Get("/products")
	if err != nil {
		c.logger.Debug("backend health check failed", zap.Error(err))
		return false
	}
	return !resp.IsError()
}

func apiError(resp *resty.Response) *APIError {
	return &APIError{StatusCode: resp.StatusCode(), Message: messageFrom(resp.Body())}
}
