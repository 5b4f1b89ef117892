package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resLandmarks = mcp.NewResource(
	"fitflow://landmarks",
	"Volume Landmarks",
	mcp.WithResourceDescription("MEV/MAV/MRV weekly set landmarks for every muscle group"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"fitflow://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with the muscle groups they train and their equipment"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) landmarksResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, h.landmarkTable())
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, exercises)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
