package mcp

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

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/planner"
	"github.com/claude/fitflow/internal/volume"
)

// HTTPClient implements DataSource by calling the FitFlow REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// statusError maps REST status codes back onto planner sentinels so tools
// render remote and local failures the same way.
func statusError(path string, status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, planner.ErrNotFound)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, planner.ErrInvalidArgument)
	}
	return fmt.Errorf("httpclient: %s returned %d: %s", path, status, msg)
}

func (c *HTTPClient) GetVolumeAnalysis(ctx context.Context, _ int64, programID int64) (*volume.Analysis, error) {
	var a volume.Analysis
	if err := c.get(ctx, fmt.Sprintf("/api/v1/programs/%d/volume", programID), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) CurrentWeekVolume(ctx context.Context, _ int64) (*volume.WeekReport, error) {
	var r volume.WeekReport
	if err := c.get(ctx, "/api/v1/analytics/volume/current-week", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) VolumeTrends(ctx context.Context, _ int64, weeks int, muscleGroup string) ([]volume.WeekVolume, error) {
	params := url.Values{}
	if weeks != 0 {
		params.Set("weeks", strconv.Itoa(weeks))
	}
	if muscleGroup != "" {
		params.Set("muscle_group", muscleGroup)
	}
	var out []volume.WeekVolume
	if err := c.get(ctx, "/api/v1/analytics/volume/trends", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) TodayRecoveryAssessment(ctx context.Context, _ int64) (*models.RecoveryAssessment, error) {
	var a models.RecoveryAssessment
	if err := c.get(ctx, "/api/v1/recovery-assessments/today", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) AdjustedDay(ctx context.Context, _ int64, dayID int64, date string) (*planner.AdjustedDayPlan, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}
	var p planner.AdjustedDayPlan
	if err := c.get(ctx, fmt.Sprintf("/api/v1/program-days/%d/adjusted", dayID), params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	if err := c.get(ctx, "/api/v1/exercises", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetActiveProgram(ctx context.Context, _ int64) (*planner.ProgramView, error) {
	var p planner.ProgramView
	if err := c.get(ctx, "/api/v1/programs", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) OneRMProgression(ctx context.Context, _ int64, exerciseID int64, startDate, endDate string) ([]planner.OneRMPoint, error) {
	params := url.Values{"exercise_id": {strconv.FormatInt(exerciseID, 10)}}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	var out []planner.OneRMPoint
	if err := c.get(ctx, "/api/v1/analytics/1rm-progression", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) LastPerformance(ctx context.Context, _ int64, exerciseID int64) (*planner.LastPerformance, error) {
	var p planner.LastPerformance
	if err := c.get(ctx, fmt.Sprintf("/api/v1/exercises/%d/last-performance", exerciseID), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ConsistencyMetrics(ctx context.Context, _ int64) (*planner.Consistency, error) {
	var out planner.Consistency
	if err := c.get(ctx, "/api/v1/analytics/consistency", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Landmarks fetches the server's landmark table, including config overrides.
func (c *HTTPClient) Landmarks(ctx context.Context) (volume.Landmarks, error) {
	var lm volume.Landmarks
	if err := c.get(ctx, "/api/v1/landmarks", nil, &lm); err != nil {
		return nil, err
	}
	return lm, nil
}
