// ABOUTME: MCP resource implementations for the gym tracker.
// ABOUTME: Provides gym://routines and gym://sessions/recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// gym://routines - All routines with their ordered exercises
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gym://routines",
		Name:        "Workout Routines",
		Description: "All routines with their ordered exercise lists",
		MIMEType:    "application/json",
	}, s.handleRoutinesResource)

	// gym://sessions/recent - Last 10 sessions with their sets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gym://sessions/recent",
		Name:        "Recent Sessions",
		Description: "Last 10 workout sessions with logged sets",
		MIMEType:    "application/json",
	}, s.handleRecentSessionsResource)
}

// Resource handlers

func (s *Server) handleRoutinesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	routines, err := s.repo.ListRoutines()
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(routines))
	for _, r := range routines {
		exercises, err := s.repo.RoutineExercises(r.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load routine exercises: %w", err)
		}
		names := make([]string, 0, len(exercises))
		for _, e := range exercises {
			names = append(names, e.Name)
		}
		out = append(out, map[string]interface{}{
			"id":        r.ID.String(),
			"name":      r.Name,
			"exercises": names,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "gym://routines",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleRecentSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]map[string]interface{}, 0, len(sessions))
	for _, sess := range sessions {
		sets, err := s.repo.SetsForSession(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session sets: %w", err)
		}

		entry := map[string]interface{}{
			"id":         sess.ID.String(),
			"started_at": sess.StartedAt.Format(time.RFC3339),
			"set_count":  len(sets),
		}
		if sess.FinishedAt != nil {
			entry["finished_at"] = sess.FinishedAt.Format(time.RFC3339)
		}
		if sess.RoutineID != nil {
			entry["routine_id"] = sess.RoutineID.String()
		}
		out = append(out, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      "gym://sessions/recent",
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
