// Package apiclient talks to the flight booking REST API. Every call is
// rate limited per endpoint group and every failure comes back as a
// models.RequestFailure or models.AuthFailure.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dharmasatrya/flightbooking/internal/cache"
	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/internal/ratelimit"
	"github.com/dharmasatrya/flightbooking/pkg/logger"
)

const (
	MsgUnavailable = "The flight service is unavailable right now. Please try again."
	MsgUnexpected  = "Something went wrong. Please try again."
	maxErrorBody   = 64 << 10
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	OAuthBrokerURL string
	// MaxRetries applies to idempotent calls only. Zero disables retries.
	MaxRetries  int
	RetryDelays []time.Duration
}

type Client struct {
	baseURL   string
	brokerURL string
	http      *http.Client
	limiter   *ratelimit.EndpointLimiter
	cache     cache.Cache
	log       *logger.Logger
	retry     retryPolicy
}

func New(cfg Config, limiter *ratelimit.EndpointLimiter, c cache.Cache, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if limiter == nil {
		limiter = ratelimit.NewEndpointLimiterWithDefaults()
	}
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		brokerURL: strings.TrimRight(cfg.OAuthBrokerURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		cache:     c,
		log:       log,
		retry:     newRetryPolicy(cfg.MaxRetries, cfg.RetryDelays),
	}
}

func (c *Client) logFor(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx, c.log)
}

type call struct {
	op       string
	endpoint string
	method   string
	path     string
	token    string
	headers  map[string]string
	body     any
	out      any
	// authOp marks calls whose 400/401/403 answers are credential problems.
	authOp bool
	// idempotent calls are retried on transport errors and 5xx answers.
	idempotent bool
}

// apiError covers the error bodies the API is known to send.
type apiError struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e apiError) text() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil && s != "" {
			return s
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (c *Client) do(ctx context.Context, cl call) error {
	if !cl.idempotent {
		return c.doOnce(ctx, cl)
	}
	return c.retry.run(ctx, func(attempt int) error {
		if attempt > 0 {
			c.logFor(ctx).DebugContext(ctx, "Retrying API call", "op", cl.op, "attempt", attempt+1)
		}
		return c.doOnce(ctx, cl)
	})
}

func (c *Client) doOnce(ctx context.Context, cl call) error {
	if err := c.limiter.Wait(ctx, cl.endpoint); err != nil {
		return &models.RequestFailure{Op: cl.op, Message: MsgUnavailable, Err: err}
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &models.RequestFailure{Op: cl.op, Message: MsgUnexpected, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return &models.RequestFailure{Op: cl.op, Message: MsgUnexpected, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logFor(ctx).LogAPICall(ctx, cl.op, 0, time.Since(start), err)
		return &models.RequestFailure{Op: cl.op, Message: MsgUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		failure := c.failure(cl, resp)
		c.logFor(ctx).LogAPICall(ctx, cl.op, resp.StatusCode, time.Since(start), failure)
		return failure
	}
	c.logFor(ctx).LogAPICall(ctx, cl.op, resp.StatusCode, time.Since(start), nil)

	if cl.out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil && !errors.Is(err, io.EOF) {
		return &models.RequestFailure{Op: cl.op, Status: resp.StatusCode, Message: MsgUnexpected, Err: err}
	}
	return nil
}

func (c *Client) failure(cl call, resp *http.Response) error {
	var apiErr apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(data, &apiErr)
	msg := apiErr.text()

	if cl.authOp {
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			if msg == "" {
				msg = "Authentication failed"
			}
			return &models.AuthFailure{Reason: msg}
		}
	}

	if msg == "" {
		msg = MsgUnexpected
		if resp.StatusCode >= 500 {
			msg = MsgUnavailable
		}
	}
	return &models.RequestFailure{Op: cl.op, Status: resp.StatusCode, Message: msg}
}
