package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/roster"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// ImportRequest represents the arguments for student_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// AddRequest represents the arguments for student_add.
type AddRequest struct {
	EID          string `json:"eid"`
	Name         string `json:"name"`
	Courses      string `json:"courses,omitempty"`
	Confidence   *int   `json:"confidence,omitempty"`
	Availability string `json:"availability,omitempty"`
	Email        string `json:"email,omitempty"`
	TopicsNeed   string `json:"topics_need,omitempty"`
	StudyStyle   string `json:"study_style,omitempty"`
	WorkHours    *int   `json:"work_hours,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

// FetchRequest represents the arguments for student_fetch.
type FetchRequest struct {
	EID string `json:"eid"`
}

// ListRequest represents the arguments for student_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// RemoveRequest represents the arguments for student_remove.
type RemoveRequest struct {
	EID string `json:"eid"`
}

// ResourceAddRequest represents the arguments for resource_add.
type ResourceAddRequest struct {
	EID  string `json:"eid"`
	Text string `json:"text"`
}

// ResourceListRequest represents the arguments for resource_list.
type ResourceListRequest struct {
	EID string `json:"eid"`
}

// MatchFindRequest represents the arguments for match_find.
type MatchFindRequest struct {
	EID   string `json:"eid"`
	Limit int    `json:"limit,omitempty"`
}

// MatchBestRequest represents the arguments for match_best.
type MatchBestRequest struct {
	EID string `json:"eid"`
}

// MatchReportRequest represents the arguments for match_report.
type MatchReportRequest struct {
	EID   string `json:"eid"`
	Path  string `json:"path,omitempty"`
	Limit int    `json:"limit,omitempty"`
	HTML  bool   `json:"html,omitempty"`
}

// Handler implementations

// HandleImport handles the student_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.Import(h.db, h.cfg, roster.ImportInput{
		Path: input.Path,
		Mode: roster.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAdd handles the student_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.Add(h.db, roster.AddInput{
		EID:          input.EID,
		Name:         input.Name,
		Courses:      input.Courses,
		Confidence:   input.Confidence,
		Availability: input.Availability,
		Email:        input.Email,
		TopicsNeed:   input.TopicsNeed,
		StudyStyle:   input.StudyStyle,
		WorkHours:    input.WorkHours,
		Mode:         roster.AddMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the student_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.Fetch(h.db, roster.FetchInput{EID: input.EID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the student_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.List(h.db, roster.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRemove handles the student_remove tool call.
func (h *Handlers) HandleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.Remove(h.db, roster.RemoveInput{EID: input.EID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleResourceAdd handles the resource_add tool call.
func (h *Handlers) HandleResourceAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResourceAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.AddResource(h.db, roster.AddResourceInput{
		EID:  input.EID,
		Text: input.Text,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleResourceList handles the resource_list tool call.
func (h *Handlers) HandleResourceList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResourceListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.Resources(h.db, roster.ResourcesInput{EID: input.EID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMatchFind handles the match_find tool call.
func (h *Handlers) HandleMatchFind(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MatchFindRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.FindMatches(h.db, roster.FindMatchesInput{
		SeekerEID: input.EID,
		Limit:     input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMatchBest handles the match_best tool call.
func (h *Handlers) HandleMatchBest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MatchBestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.BestMatch(h.db, roster.BestMatchInput{SeekerEID: input.EID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMatchReport handles the match_report tool call.
func (h *Handlers) HandleMatchReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MatchReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := roster.Report(h.db, h.cfg, roster.ReportInput{
		SeekerEID: input.EID,
		Path:      input.Path,
		Limit:     input.Limit,
		HTML:      input.HTML,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if mErr, ok := err.(*errors.MatchError); ok {
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": mErr.Message,
			"status":  mErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if mErr.Code != errors.ErrInternal && mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
