package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Multi-valued student fields travel as strings in the
// roster's CSV shapes: courses and topics comma-separated, availability
// semicolon-separated.

var importToolDef = mcp.NewTool("student_import",
	mcp.WithDescription("Import students from a CSV roster file. Header must include ut_eid and name; recognized columns: courses, confidence_level, availability, email, topics_need, study_life, work_hours."),
	mcp.WithString("path", mcp.Required(),
		mcp.Description("Path to the roster .csv file (must be in an allowed directory)")),
	mcp.WithString("mode",
		mcp.Description("Collision handling: error (default, atomic), replace, or skip")),
)

var addToolDef = mcp.NewTool("student_add",
	mcp.WithDescription("Add a single student to the roster."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID, the unique student key")),
	mcp.WithString("name", mcp.Required(), mcp.Description("Student name")),
	mcp.WithString("courses", mcp.Description("Comma-separated course codes")),
	mcp.WithNumber("confidence", mcp.Description("Confidence level 1-5 (default 1)")),
	mcp.WithString("availability", mcp.Description("Semicolon-separated meeting slots")),
	mcp.WithString("email", mcp.Description("Contact email")),
	mcp.WithString("topics_need", mcp.Description("Comma-separated topics the student needs help with")),
	mcp.WithString("study_style", mcp.Description("Preferred study style; omit or 'none' for no preference")),
	mcp.WithNumber("work_hours", mcp.Description("Weekly work hours, >= 0 (default 5)")),
	mcp.WithString("mode", mcp.Description("Collision handling: error (default) or replace")),
)

var fetchToolDef = mcp.NewTool("student_fetch",
	mcp.WithDescription("Fetch one student record with their resource list."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the student")),
)

var listToolDef = mcp.NewTool("student_list",
	mcp.WithDescription("List student summaries ordered by EID."),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
)

var removeToolDef = mcp.NewTool("student_remove",
	mcp.WithDescription("Remove a student and their resources from the roster."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the student")),
)

var resourceAddToolDef = mcp.NewTool("resource_add",
	mcp.WithDescription("Attach a study resource note to a student. Empty text is a no-op."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the student")),
	mcp.WithString("text", mcp.Required(), mcp.Description("Resource text, trimmed before storing")),
)

var resourceListToolDef = mcp.NewTool("resource_list",
	mcp.WithDescription("List a student's study resources in insertion order."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the student")),
)

var matchFindToolDef = mcp.NewTool("match_find",
	mcp.WithDescription("Rank every other student against the seeker, best first."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the seeker")),
	mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 10, max 100)")),
)

var matchBestToolDef = mcp.NewTool("match_best",
	mcp.WithDescription("Return the single best study partner for the seeker."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the seeker")),
)

var matchReportToolDef = mcp.NewTool("match_report",
	mcp.WithDescription("Write a ranked match report for the seeker as Markdown or HTML."),
	mcp.WithString("eid", mcp.Required(), mcp.Description("UT EID of the seeker")),
	mcp.WithString("path",
		mcp.Description("Output path (.md or .html) in an allowed directory; defaults to ~/.studymatch/exports")),
	mcp.WithNumber("limit", mcp.Description("Candidates to include (default 10, max 100)")),
	mcp.WithBoolean("html", mcp.Description("Render the report as HTML instead of Markdown")),
)
