package DistanceMatrix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 8 * time.Second

	tableURL = "/table/v1/"

	// cap on the body we are willing to decode; a 15x15 table is a few KB
	maxResponseBytes = 1 << 20
)

// ErrRoutingService is wrapped by every failure of the routing service adapter.
var ErrRoutingService = errors.New("routing service failed")

var osrmRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "osrm_table_request_duration_seconds",
		Help:    "OSRM table request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
	},
	[]string{"outcome"},
)

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns the "lng,lat" form OSRM expects in its path.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Matrix holds directional road distances in meters: Matrix[i][j] is the distance from i to j.
type Matrix [][]float64

// Size returns N for an N×N matrix.
func (m Matrix) Size() int {
	return len(m)
}

// Provider resolves a full distance matrix for an ordered list of coordinates.
// Implementations either return all N×N entries or an error, never a partial matrix.
type Provider interface {
	GetDistanceMatrix(ctx context.Context, coords []Coordinate) (Matrix, error)
}

// OSRMClient talks to the OSRM table service.
type OSRMClient struct {
	baseURL    string
	profile    string
	httpClient *http.Client
}

// NewOSRMClient creates a client for baseURL (e.g. http://router.project-osrm.org).
func NewOSRMClient(baseURL, profile string, timeout time.Duration) *OSRMClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OSRMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

// GetDistanceMatrix issues a single batched table request for all coordinates.
func (c *OSRMClient) GetDistanceMatrix(ctx context.Context, coords []Coordinate) (Matrix, error) {
	start := time.Now()
	matrix, err := c.getDistanceMatrix(ctx, coords)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	osrmRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Warn().Err(err).Int("waypoints", len(coords)).Dur("latency", time.Since(start)).Msg("osrm table request failed")
		return nil, err
	}
	log.Debug().Int("waypoints", len(coords)).Dur("latency", time.Since(start)).Msg("osrm table resolved")
	return matrix, nil
}

func (c *OSRMClient) getDistanceMatrix(ctx context.Context, coords []Coordinate) (Matrix, error) {
	n := len(coords)
	if n == 0 {
		return nil, fmt.Errorf("%w: no coordinates", ErrRoutingService)
	}

	parts := make([]string, n)
	for i, coord := range coords {
		parts[i] = coord.String()
	}
	reqURL := c.baseURL + tableURL + c.profile + "/" + strings.Join(parts, ";") + "?annotations=distance"

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result tableResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", ErrRoutingService, err)
	}
	if result.Code != "Ok" {
		return nil, fmt.Errorf("%w: osrm code %q: %s", ErrRoutingService, result.Code, result.Message)
	}

	return toMatrix(result.Distances, n)
}

// toMatrix converts the raw distances annotation, rejecting anything that is not a full N×N table.
func toMatrix(raw [][]*float64, n int) (Matrix, error) {
	if len(raw) != n {
		return nil, fmt.Errorf("%w: distances has %d rows, want %d", ErrRoutingService, len(raw), n)
	}

	matrix := make(Matrix, n)
	for i, row := range raw {
		if len(row) != n {
			return nil, fmt.Errorf("%w: distances row %d has %d cells, want %d", ErrRoutingService, i, len(row), n)
		}
		matrix[i] = make([]float64, n)
		for j, cell := range row {
			// OSRM reports null for unroutable pairs
			if cell == nil {
				return nil, fmt.Errorf("%w: no route from %d to %d", ErrRoutingService, i, j)
			}
			if *cell < 0 {
				return nil, fmt.Errorf("%w: negative distance %v from %d to %d", ErrRoutingService, *cell, i, j)
			}
			matrix[i][j] = *cell
		}
	}
	return matrix, nil
}

func (c *OSRMClient) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrRoutingService, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %w", ErrRoutingService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRoutingService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrRoutingService, resp.StatusCode)
	}

	return body, nil
}

// Ensure the interface is implemented
var _ Provider = (*OSRMClient)(nil)
