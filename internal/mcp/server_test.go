package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/fitflow/internal/models"
	"github.com/claude/fitflow/internal/planner"
	"github.com/claude/fitflow/internal/volume"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

type fakeSource struct {
	DataSource

	gotUser  int64
	gotWeeks int
	gotGroup string
	todayErr error
}

func (f *fakeSource) GetVolumeAnalysis(_ context.Context, userID, programID int64) (*volume.Analysis, error) {
	f.gotUser = userID
	if programID != 3 {
		return nil, fmt.Errorf("program %d: %w", programID, planner.ErrNotFound)
	}
	return &volume.Analysis{ProgramID: 3, MesocyclePhase: "mev", MesocycleWeek: 1}, nil
}

func (f *fakeSource) VolumeTrends(_ context.Context, _ int64, weeks int, group string) ([]volume.WeekVolume, error) {
	f.gotWeeks, f.gotGroup = weeks, group
	return []volume.WeekVolume{}, nil
}

func (f *fakeSource) TodayRecoveryAssessment(context.Context, int64) (*models.RecoveryAssessment, error) {
	if f.todayErr != nil {
		return nil, f.todayErr
	}
	return &models.RecoveryAssessment{TotalScore: 6}, nil
}

func newTestHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, lm: volume.DefaultLandmarks(), log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in %+v", res)
	return ""
}

// TestClassifyVolume verifies the zone boundaries against the default chest
// landmarks (8/14/22).
func TestClassifyVolume(t *testing.T) {
	h := newTestHandlers(nil)
	tests := []struct {
		sets    float64
		zone    volume.Zone
		warning bool
	}{
		{7, volume.ZoneBelowMEV, true},
		{8, volume.ZoneAdequate, false},
		{14, volume.ZoneOptimal, false},
		{22, volume.ZoneOptimal, false},
		{23, volume.ZoneAboveMRV, true},
	}
	for _, tt := range tests {
		res, err := h.classifyVolume(context.Background(), callTool("classify_volume", map[string]any{
			"muscle_group": "Chest",
			"sets":         tt.sets,
		}))
		if err != nil {
			t.Fatal(err)
		}
		if res.IsError {
			t.Fatalf("sets=%v: unexpected tool error %q", tt.sets, resultText(t, res))
		}
		var got volume.PlannedGroup
		if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
			t.Fatal(err)
		}
		if got.Zone != tt.zone {
			t.Errorf("sets=%v: zone=%s, want %s", tt.sets, got.Zone, tt.zone)
		}
		if (got.Warning != nil) != tt.warning {
			t.Errorf("sets=%v: warning=%v, want present=%v", tt.sets, got.Warning, tt.warning)
		}
	}
}

// TestClassifyVolumeRejects verifies bad arguments become tool errors.
func TestClassifyVolumeRejects(t *testing.T) {
	h := newTestHandlers(nil)
	for _, args := range []map[string]any{
		{"muscle_group": "wings", "sets": 10.0},
		{"muscle_group": "chest", "sets": -1.0},
		{"muscle_group": "chest"},
	} {
		res, err := h.classifyVolume(context.Background(), callTool("classify_volume", args))
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("args %v: expected tool error", args)
		}
	}
}

// TestGetVolumeAnalysisScopesUser verifies the caller's id reaches the data
// source and lookup failures surface as tool errors.
func TestGetVolumeAnalysisScopesUser(t *testing.T) {
	ds := &fakeSource{}
	h := newTestHandlers(ds)
	ctx := WithUserID(context.Background(), 9)

	res, err := h.getVolumeAnalysis(ctx, callTool("get_volume_analysis", map[string]any{"program_id": 3.0}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error %q", resultText(t, res))
	}
	if ds.gotUser != 9 {
		t.Errorf("user=%d, want 9", ds.gotUser)
	}

	res, err = h.getVolumeAnalysis(ctx, callTool("get_volume_analysis", map[string]any{"program_id": 4.0}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("missing program should be a tool error")
	}
}

// TestGetVolumeTrendsDefaults verifies the default window is sent when
// weeks is omitted.
func TestGetVolumeTrendsDefaults(t *testing.T) {
	ds := &fakeSource{}
	h := newTestHandlers(ds)
	if _, err := h.getVolumeTrends(context.Background(), callTool("get_volume_trends", nil)); err != nil {
		t.Fatal(err)
	}
	if ds.gotWeeks != planner.DefaultTrendWeeks || ds.gotGroup != "" {
		t.Errorf("weeks=%d group=%q", ds.gotWeeks, ds.gotGroup)
	}
}

// TestGetRecoveryTodayMissing verifies a missing assessment is reported as
// plain text rather than an error.
func TestGetRecoveryTodayMissing(t *testing.T) {
	h := newTestHandlers(&fakeSource{todayErr: fmt.Errorf("recovery assessment: %w", planner.ErrNotFound)})
	res, err := h.getRecoveryToday(context.Background(), callTool("get_recovery_today", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Error("missing assessment should not be a tool error")
	}
	if got := resultText(t, res); got != "No recovery assessment submitted today." {
		t.Errorf("text = %q", got)
	}
}

// TestListMuscleGroups verifies every known group is listed in stable order.
func TestListMuscleGroups(t *testing.T) {
	h := newTestHandlers(nil)
	res, err := h.listMuscleGroups(context.Background(), callTool("list_muscle_groups", nil))
	if err != nil {
		t.Fatal(err)
	}
	var rows []landmarkRow
	if err := json.Unmarshal([]byte(resultText(t, res)), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(volume.MuscleGroups()) {
		t.Fatalf("rows=%d, want %d", len(rows), len(volume.MuscleGroups()))
	}
	if rows[0].MuscleGroup != volume.Chest || rows[0].MRV != 22 {
		t.Errorf("first row = %+v", rows[0])
	}
}

// TestNewRegistersTools verifies the server builds with a data source.
func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeSource{}, volume.DefaultLandmarks(), "test", slog.Default())
	if s == nil {
		t.Fatal("New returned nil")
	}
}
