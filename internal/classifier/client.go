// Package classifier is the client adapter for the external crisis-detection
// classifier: one health endpoint, one single-phrase analyze endpoint.
package classifier

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"go.uber.org/zap"

	"github.com/crisis-detection/threshold-tuner/internal/priority"
)

// #endregion

// #region errors

// ErrUnhealthy signals that the classifier's health endpoint did not report
// healthy. A run must abort before sending any analyze traffic.
var ErrUnhealthy = errors.New("classifier unhealthy")

// #endregion

// #region types

// Analysis is the classifier's verdict for a single phrase.
type Analysis struct {
	Priority   priority.Level
	Confidence float64
	LatencyMs  float64
}

// ClientConfig holds connection, resilience, and pacing settings.
type ClientConfig struct {
	BaseURL           string
	AnalyzeTimeout    time.Duration
	HealthTimeout     time.Duration
	RetryAttempts     int           // total attempts per analyze call
	RetryBackoff      time.Duration // initial backoff between attempts
	InterRequestDelay time.Duration // courtesy pacing after every call
	UserID            string        // synthetic identity for test traffic
	ChannelID         string
}

// DefaultClientConfig returns the settings used against a local classifier.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           "http://localhost:8000",
		AnalyzeTimeout:    10 * time.Second,
		HealthTimeout:     5 * time.Second,
		RetryAttempts:     3,
		RetryBackoff:      250 * time.Millisecond,
		InterRequestDelay: 100 * time.Millisecond,
		UserID:            "tuner-harness",
		ChannelID:         "tuner-run",
	}
}

// #endregion

// #region wire-types

type analyzeRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

type analyzeResponse struct {
	CrisisLevel      string  `json:"crisis_level"`
	ConfidenceScore  float64 `json:"confidence_score"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// #endregion

// #region client

// Client issues health checks and single-phrase analysis requests.
// Stateless across calls; retry state is scoped to one Analyze invocation.
type Client struct {
	config ClientConfig
	http   *http.Client
	log    *zap.Logger
}

// NewClient creates a classifier client. logger must not be nil.
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		http:   &http.Client{},
		log:    logger,
	}
}

// #endregion

// #region health-check

// HealthCheck calls GET /health once. Any transport failure, bad status, or a
// non-healthy status body is reported as ErrUnhealthy; there is no retry on
// this path because the caller aborts the run anyway.
func (c *Client) HealthCheck(ctx context.Context) error {
	t := timeout.New[healthResponse](timeout.Config{DefaultTimeout: c.config.HealthTimeout})

	resp, err := t.Execute(ctx, c.config.HealthTimeout, func(ctx context.Context) (healthResponse, error) {
		return c.getHealth(ctx)
	})
	defer c.pace(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("%w: status=%q", ErrUnhealthy, resp.Status)
	}
	c.log.Debug("classifier healthy", zap.String("base_url", c.config.BaseURL))
	return nil
}

func (c *Client) getHealth(ctx context.Context) (healthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return healthResponse{}, fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return healthResponse{}, fmt.Errorf("health request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return healthResponse{}, fmt.Errorf("health status %d", resp.StatusCode)
	}
	var hr healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return healthResponse{}, fmt.Errorf("decode health response: %w", err)
	}
	return hr, nil
}

// #endregion

// #region analyze

// Analyze sends one phrase to POST /analyze with a bounded retry policy.
// Only network-level failures are retried; retry exhaustion surfaces as an
// error the engine records as outcome=error, never drops.
func (c *Client) Analyze(ctx context.Context, text string) (Analysis, error) {
	r := retry.New[Analysis](retry.Config{
		MaxAttempts:   c.config.RetryAttempts,
		InitialDelay:  c.config.RetryBackoff,
		BackoffPolicy: retry.BackoffExponential,
		IsRetryable:   isTransportError,
	})
	t := timeout.New[Analysis](timeout.Config{DefaultTimeout: c.config.AnalyzeTimeout})

	analysis, err := r.Do(ctx, func(ctx context.Context) (Analysis, error) {
		return t.Execute(ctx, c.config.AnalyzeTimeout, func(ctx context.Context) (Analysis, error) {
			return c.postAnalyze(ctx, text)
		})
	})
	c.pace(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze after %d attempts: %w", c.config.RetryAttempts, err)
	}
	return analysis, nil
}

func (c *Client) postAnalyze(ctx context.Context, text string) (Analysis, error) {
	body, err := json.Marshal(analyzeRequest{
		Message:   text,
		UserID:    c.config.UserID,
		ChannelID: c.config.ChannelID,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Analysis{}, fmt.Errorf("analyze status %d", resp.StatusCode)
	}

	var ar analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return Analysis{}, fmt.Errorf("decode analyze response: %w", err)
	}
	level, err := priority.Parse(ar.CrisisLevel)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze response: %w", err)
	}

	latency := ar.ProcessingTimeMs
	if latency <= 0 {
		latency = float64(elapsed.Milliseconds())
	}
	c.log.Debug("analyze",
		zap.String("level", string(level)),
		zap.Float64("confidence", ar.ConfidenceScore),
		zap.Float64("latency_ms", latency))

	return Analysis{Priority: level, Confidence: ar.ConfidenceScore, LatencyMs: latency}, nil
}

// #endregion

// #region retryable

// isTransportError limits retries to network-level failures: timeouts,
// connection errors, and anything the transport itself reported. Bad statuses
// and malformed or unknown payloads are deterministic; repeating them only
// burns the classifier's single worker.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// #endregion

// #region pace

// pace applies the fixed inter-request delay. The classifier runs a single
// effective worker; the delay keeps test traffic courteous, it is not a
// correctness mechanism.
func (c *Client) pace(ctx context.Context) {
	if c.config.InterRequestDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.config.InterRequestDelay):
	case <-ctx.Done():
	}
}

// #endregion
