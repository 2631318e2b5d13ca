package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"golang.org/x/time/rate"
)

// SolverPaths are the endpoint paths of each module on the solver service
type SolverPaths struct {
	Linear    string
	Transport string
	Network   string
}

// DefaultSolverPaths are the routes exposed by the solver service
var DefaultSolverPaths = SolverPaths{
	Linear:    "/api/solve_linear",
	Transport: "/api/solve_transport",
	Network:   "/api/solve_network",
}

// SolverClientConfig configures a SolverClient
type SolverClientConfig struct {
	BaseURL string
	Paths   SolverPaths
	Timeout time.Duration
	// RateLimit is the sustained number of solver calls per second; zero disables limiting
	RateLimit float64
	Burst     int
}

// SolverClient handles communication with the external solver service
type SolverClient struct {
	baseURL    string
	paths      SolverPaths
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSolverClient creates a new solver client
func NewSolverClient(cfg SolverClientConfig) *SolverClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.Paths.Linear == "" {
		cfg.Paths.Linear = DefaultSolverPaths.Linear
	}
	if cfg.Paths.Transport == "" {
		cfg.Paths.Transport = DefaultSolverPaths.Transport
	}
	if cfg.Paths.Network == "" {
		cfg.Paths.Network = DefaultSolverPaths.Network
	}
	c := &SolverClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		paths:   cfg.Paths,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// HTTPStatusError is a non-2xx answer from the solver
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("solver returned status %d: %s", e.StatusCode, e.Body)
}

// SolveLinear posts a linear programming model
func (c *SolverClient) SolveLinear(ctx context.Context, req domain.LinearRequest) (domain.SolverResponse, error) {
	return c.post(ctx, c.paths.Linear, req)
}

// SolveTransport posts a transportation model
func (c *SolverClient) SolveTransport(ctx context.Context, req domain.TransportRequest) (domain.SolverResponse, error) {
	return c.post(ctx, c.paths.Transport, req)
}

// SolveNetwork posts a network graph
func (c *SolverClient) SolveNetwork(ctx context.Context, req domain.NetworkRequest) (domain.SolverResponse, error) {
	return c.post(ctx, c.paths.Network, req)
}

func (c *SolverClient) post(ctx context.Context, path string, payload interface{}) (domain.SolverResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call solver: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out domain.SolverResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("solver returned an empty body")
	}
	return out, nil
}
