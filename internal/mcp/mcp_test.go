package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/db"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	cleanup := func() {
		database.Close()
	}

	return database, cfg, cleanup
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

const testRosterCSV = `ut_eid,name,courses,confidence_level,availability,email,topics_need,study_life,work_hours
aavila,Ana,"CS313E,GOV310",1,Mon3pm;Tue10am,ana.avila@utexas.edu,Heaps,quiet,4
jsmith,John,"CS313E,M408C",5,Mon3pm;Wed4pm,john.smith@utexas.edu,"Heaps,Trees",quiet,6
bchen,Ben,"CS313E,M408C",3,Fri1pm,ben.chen@utexas.edu,Trees,group,3
ajones,Alex,"CS313E,GOV310,PHI301",4,Tue10am;Wed4pm,alex.jones@utexas.edu,Heaps,quiet,4
`

// seedRoster imports the fixture roster through the import handler.
func seedRoster(t *testing.T, h *Handlers) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte(testRosterCSV), 0600); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("import handler errored: %v", err)
	}
	if result.IsError {
		t.Fatalf("import failed: %v", extractErrorMessage(result))
	}
}

func TestHandleAdd(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "add valid student",
			args: map[string]any{
				"eid":          "aavila",
				"name":         "Ana",
				"courses":      "CS313E,GOV310",
				"confidence":   1,
				"availability": "Mon3pm;Tue10am",
				"work_hours":   4,
			},
			wantError: false,
		},
		{
			name:      "add without eid",
			args:      map[string]any{"name": "Nobody"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "add without name",
			args:      map[string]any{"eid": "x1"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "add duplicate with mode:error",
			args: map[string]any{
				"eid":  "aavila", // already exists from first test
				"name": "Imposter",
			},
			wantError: true,
			errorCode: "DUPLICATE_EID",
		},
		{
			name: "add duplicate with mode:replace",
			args: map[string]any{
				"eid":  "aavila",
				"name": "Ana Avila",
				"mode": "replace",
			},
			wantError: false,
		},
		{
			name: "add with negative work hours",
			args: map[string]any{
				"eid":        "x2",
				"name":       "Sam",
				"work_hours": -3,
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAdd(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

func TestHandleImport(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	listResult, err := h.HandleList(ctx, makeRequest(map[string]any{}))
	if err != nil || listResult.IsError {
		t.Fatalf("list failed: %v %v", err, extractErrorMessage(listResult))
	}
	output := resultJSON(t, listResult)
	pagination := output["pagination"].(map[string]any)
	if total := pagination["total"].(float64); total != 4 {
		t.Errorf("total = %v, want 4", total)
	}

	// Missing file.
	result, err := h.HandleImport(ctx, makeRequest(map[string]any{
		"path": filepath.Join(t.TempDir(), "absent.csv"),
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "FILE_NOT_FOUND")

	// Unknown mode.
	result, err = h.HandleImport(ctx, makeRequest(map[string]any{
		"path": "whatever.csv",
		"mode": "merge",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleFetch(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	result, err := h.HandleFetch(ctx, makeRequest(map[string]any{"eid": "aavila"}))
	if err != nil || result.IsError {
		t.Fatalf("fetch failed: %v %v", err, extractErrorMessage(result))
	}
	output := resultJSON(t, result)
	if output["name"] != "Ana" {
		t.Errorf("name = %v, want Ana", output["name"])
	}

	result, err = h.HandleFetch(ctx, makeRequest(map[string]any{"eid": "ghost"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleRemove(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	result, err := h.HandleRemove(ctx, makeRequest(map[string]any{"eid": "bchen"}))
	if err != nil || result.IsError {
		t.Fatalf("remove failed: %v %v", err, extractErrorMessage(result))
	}

	result, err = h.HandleFetch(ctx, makeRequest(map[string]any{"eid": "bchen"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleResourceAddAndList(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	result, err := h.HandleResourceAdd(ctx, makeRequest(map[string]any{
		"eid":  "aavila",
		"text": "heap visualizer",
	}))
	if err != nil || result.IsError {
		t.Fatalf("resource_add failed: %v %v", err, extractErrorMessage(result))
	}
	added := resultJSON(t, result)
	if added["added"] != true || added["id"] == "" {
		t.Errorf("output = %v", added)
	}

	result, err = h.HandleResourceList(ctx, makeRequest(map[string]any{"eid": "aavila"}))
	if err != nil || result.IsError {
		t.Fatalf("resource_list failed: %v %v", err, extractErrorMessage(result))
	}
	listed := resultJSON(t, result)
	resources := listed["resources"].([]any)
	if len(resources) != 1 || resources[0] != "heap visualizer" {
		t.Errorf("resources = %v", resources)
	}

	result, err = h.HandleResourceAdd(ctx, makeRequest(map[string]any{
		"eid":  "ghost",
		"text": "notes",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleMatchFind(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	result, err := h.HandleMatchFind(ctx, makeRequest(map[string]any{"eid": "aavila"}))
	if err != nil || result.IsError {
		t.Fatalf("match_find failed: %v %v", err, extractErrorMessage(result))
	}
	output := resultJSON(t, result)
	matches := output["matches"].([]any)
	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(matches))
	}

	top := matches[0].(map[string]any)
	if top["eid"] != "ajones" || top["score"].(float64) != 71 {
		t.Errorf("top match = %v/%v, want ajones/71", top["eid"], top["score"])
	}

	result, err = h.HandleMatchFind(ctx, makeRequest(map[string]any{"eid": "ghost"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleMatchBest(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	result, err := h.HandleMatchBest(ctx, makeRequest(map[string]any{"eid": "aavila"}))
	if err != nil || result.IsError {
		t.Fatalf("match_best failed: %v %v", err, extractErrorMessage(result))
	}
	output := resultJSON(t, result)
	partner := output["partner"].(map[string]any)
	if partner["eid"] != "ajones" || partner["score"].(float64) != 71 {
		t.Errorf("partner = %v/%v, want ajones/71", partner["eid"], partner["score"])
	}

	// A roster of one has nobody to rank.
	soloDB, soloCfg, soloCleanup := testSetup(t)
	defer soloCleanup()
	sh := NewHandlers(soloDB, soloCfg)
	if r, _ := sh.HandleAdd(ctx, makeRequest(map[string]any{"eid": "solo", "name": "Solo"})); r.IsError {
		t.Fatalf("add failed: %v", extractErrorMessage(r))
	}
	result, err = sh.HandleMatchBest(ctx, makeRequest(map[string]any{"eid": "solo"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "NO_MATCH")
}

func TestHandleMatchReport(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	h := NewHandlers(database, cfg)
	ctx := context.Background()
	seedRoster(t, h)

	path := filepath.Join(t.TempDir(), "ana.md")
	result, err := h.HandleMatchReport(ctx, makeRequest(map[string]any{
		"eid":  "aavila",
		"path": path,
	}))
	if err != nil || result.IsError {
		t.Fatalf("match_report failed: %v %v", err, extractErrorMessage(result))
	}
	output := resultJSON(t, result)
	if output["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3", output["count"])
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if !strings.Contains(string(content), "Alex (ajones)") {
		t.Errorf("report missing top match:\n%s", content)
	}
}

func TestToolRegistry(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Fatalf("AllToolNames = %d entries, want %d", len(names), len(toolRegistry))
	}
	for _, want := range []string{"student_import", "student_add", "match_best", "resource_list"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing tool %q", want)
		}
	}

	if unknown := ValidateDisabledTools([]string{"student_add", "bogus_tool"}); len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("ValidateDisabledTools = %v", unknown)
	}
	if unknown := ValidateDisabledTypes([]string{"student", "course"}); len(unknown) != 1 || unknown[0] != "course" {
		t.Errorf("ValidateDisabledTypes = %v", unknown)
	}

	if got := GetTypeForTool("match_find"); got != "match" {
		t.Errorf("GetTypeForTool = %q", got)
	}

	tools := ExpandTypesToTools([]string{"resource"})
	slices.Sort(tools)
	if !slices.Equal(tools, []string{"resource_add", "resource_list"}) {
		t.Errorf("ExpandTypesToTools = %v", tools)
	}
}

func TestNewServerHonorsDisabledConfig(t *testing.T) {
	database, cfg, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTypes = []string{"resource"}
	cfg.DisabledTools = []string{"match_report"}

	s := NewServer(database, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}

// Result helpers

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is not TextContent")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return payload
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if !result.IsError {
		t.Errorf("expected error result, got success")
		return
	}
	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}
	if code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
