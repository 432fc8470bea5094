// Package simulator talks to the circuit simulation backend over HTTP.
package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"qrtx/internal/wire"
)

// DefaultBaseURL is where the backend listens when nothing is configured.
const DefaultBaseURL = "http://localhost:8000"

// failurePrefix starts every error message produced on the client side.
const failurePrefix = "Failed to simulate circuit: "

// Client calls the simulate, analyze and health endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for baseURL. A zero timeout means requests never time out
// on their own; cancel ctx to abandon one.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Simulate submits req and always returns a result. Transport and HTTP failures
// come back as an unsuccessful result whose message starts with
// "Failed to simulate circuit: ". A result the backend marked unsuccessful is
// returned as-is.
func (c *Client) Simulate(ctx context.Context, req wire.CircuitRequest) *wire.SimulationResult {
	start := time.Now()
	var res wire.SimulationResult
	if err := c.post(ctx, "/simulate-circuit", req, &res); err != nil {
		c.logger.Warn("simulation failed", "error", err, "num_qubits", req.NumQubits)
		return wire.Failure(failurePrefix + err.Error())
	}
	c.logger.Info("simulation finished",
		"success", res.Success,
		"num_qubits", req.NumQubits,
		"gates", req.GateCount(),
		"elapsed", time.Since(start),
	)
	return &res
}

// Analyze asks the backend for structural statistics about req.
func (c *Client) Analyze(ctx context.Context, req wire.CircuitRequest) (*wire.CircuitAnalysis, error) {
	var out wire.CircuitAnalysis
	if err := c.post(ctx, "/analyze-circuit", req, &out); err != nil {
		return nil, fmt.Errorf("analyze circuit: %w", err)
	}
	return &out, nil
}

// Health checks that the backend is up.
func (c *Client) Health(ctx context.Context) (*wire.Health, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	var out wire.Health
	if err := c.do(httpReq, &out); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	c.logger.Debug("posting to backend", "path", path, "bytes", len(payload))
	return c.do(httpReq, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}
