// Package gws implements domain.ReconstructionEngine against a GPlates Web
// Service deployment. The service owns all topology resolution, stage
// rotations, and velocity transforms; this client only builds queries and
// decodes the JSON responses.
package gws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
)

// Client talks to the GPlates Web Service JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a web-service engine client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		metrics: metrics,
	}
}

var _ domain.ReconstructionEngine = (*Client)(nil)

// ResolveTopologies returns the resolved plate polygons at a reconstruction time.
func (c *Client) ResolveTopologies(ctx context.Context, model string, timeMa float64, anchorPlateID int) ([]domain.ResolvedTopology, error) {
	params := url.Values{
		"model":           {model},
		"time":            {formatTime(timeMa)},
		"anchor_plate_id": {strconv.Itoa(anchorPlateID)},
	}

	var resp topologiesResponse
	if err := c.get(ctx, "/topology/resolved_polygons", params, &resp); err != nil {
		return nil, err
	}

	topologies := make([]domain.ResolvedTopology, len(resp.Polygons))
	for i, p := range resp.Polygons {
		topologies[i] = domain.ResolvedTopology{
			PlateID:     p.PlateID,
			AreaKm2:     p.AreaKm2,
			PerimeterKm: p.PerimeterKm,
			Centroid:    pairToPoint(p.Centroid),
			Boundary:    pairsToPoints(p.Boundary),
		}
	}
	return topologies, nil
}

// SubductionZones samples convergence kinematics along all subduction zones.
func (c *Client) SubductionZones(ctx context.Context, q domain.SubductionQuery) ([]domain.ConvergenceSample, error) {
	params := url.Values{
		"model":           {q.Model},
		"time":            {formatTime(q.TimeMa)},
		"delta_time":      {formatTime(q.VelocityDeltaTime)},
		"sampling_deg":    {strconv.FormatFloat(q.SamplingDeg, 'f', -1, 64)},
		"anchor_plate_id": {strconv.Itoa(q.AnchorPlateID)},
	}

	var resp subductionResponse
	if err := c.get(ctx, "/topology/subduction_zones", params, &resp); err != nil {
		return nil, err
	}
	return resp.Samples, nil
}

// AssignPlateIDs partitions present-day points into static polygons.
func (c *Client) AssignPlateIDs(ctx context.Context, model string, points []domain.Point) ([]int, error) {
	params := url.Values{
		"model":  {model},
		"points": {encodePoints(points)},
	}

	var resp plateIDsResponse
	if err := c.get(ctx, "/reconstruct/assign_plate_ids", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.PlateIDs) != len(points) {
		return nil, fmt.Errorf("gws: assign_plate_ids returned %d ids for %d points", len(resp.PlateIDs), len(points))
	}
	return resp.PlateIDs, nil
}

// PointVelocities computes plate velocities at the given points.
func (c *Client) PointVelocities(ctx context.Context, q domain.VelocityQuery) ([]domain.VelocitySample, error) {
	params := url.Values{
		"model":      {q.Model},
		"time":       {formatTime(q.TimeMa)},
		"delta_time": {formatTime(q.DeltaTime)},
		"points":     {encodePoints(q.Points)},
	}

	var resp velocitiesResponse
	if err := c.get(ctx, "/velocity/points", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Velocities) != len(q.Points) {
		return nil, fmt.Errorf("gws: velocity/points returned %d samples for %d points", len(resp.Velocities), len(q.Points))
	}
	return resp.Velocities, nil
}

// ReconstructPoints rotates points to their position at q.TimeMa.
func (c *Client) ReconstructPoints(ctx context.Context, q domain.ReconstructQuery) ([]domain.Point, error) {
	if len(q.PlateIDs) != len(q.Points) {
		return nil, fmt.Errorf("gws: %d plate ids for %d points", len(q.PlateIDs), len(q.Points))
	}
	ids := make([]string, len(q.PlateIDs))
	for i, id := range q.PlateIDs {
		ids[i] = strconv.Itoa(id)
	}

	params := url.Values{
		"model":           {q.Model},
		"time":            {formatTime(q.TimeMa)},
		"anchor_plate_id": {strconv.Itoa(q.AnchorPlateID)},
		"points":          {encodePoints(q.Points)},
		"plate_ids":       {strings.Join(ids, ",")},
	}

	var resp reconstructResponse
	if err := c.get(ctx, "/reconstruct/points", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Coordinates) != len(q.Points) {
		return nil, fmt.Errorf("gws: reconstruct/points returned %d coordinates for %d points", len(resp.Coordinates), len(q.Points))
	}
	return pairsToPoints(resp.Coordinates), nil
}

// get performs a GET request against an API endpoint and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	start := time.Now()
	err := c.doGet(ctx, endpoint, params, out)
	c.metrics.EngineRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.EngineRequests.WithLabelValues(endpoint, outcome).Inc()
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint string, params url.Values, out any) error {
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("gws: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gws: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gws: %s: status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gws: decode %s response: %w", endpoint, err)
	}
	return nil
}

// encodePoints serializes points as the comma-separated lon,lat list the
// service expects.
func encodePoints(points []domain.Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%.6f,%.6f", p.Lon, p.Lat)
	}
	return b.String()
}

// formatTime renders a reconstruction time without trailing zeros.
func formatTime(timeMa float64) string {
	return strconv.FormatFloat(timeMa, 'f', -1, 64)
}

func pairToPoint(pair []float64) domain.Point {
	if len(pair) != 2 {
		return domain.Point{}
	}
	return domain.Point{Lon: pair[0], Lat: pair[1]}
}

func pairsToPoints(pairs [][]float64) []domain.Point {
	if pairs == nil {
		return nil
	}
	points := make([]domain.Point, len(pairs))
	for i, pair := range pairs {
		points[i] = pairToPoint(pair)
	}
	return points
}

// Web service response types. Coordinates are [lon, lat] pairs.

type topologiesResponse struct {
	Polygons []resolvedPolygon `json:"polygons"`
}

type resolvedPolygon struct {
	PlateID     int         `json:"plate_id"`
	AreaKm2     float64     `json:"area_km2"`
	PerimeterKm float64     `json:"perimeter_km"`
	Centroid    []float64   `json:"centroid"`
	Boundary    [][]float64 `json:"boundary"`
}

type subductionResponse struct {
	Samples []domain.ConvergenceSample `json:"samples"`
}

type plateIDsResponse struct {
	PlateIDs []int `json:"plate_ids"`
}

type velocitiesResponse struct {
	Velocities []domain.VelocitySample `json:"velocities"`
}

type reconstructResponse struct {
	Coordinates [][]float64 `json:"coordinates"`
}
