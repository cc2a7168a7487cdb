// Package mcp exposes the roster operations as MCP tools over stdio.
package mcp

import (
	"database/sql"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/studymatch/internal/config"
)

// KnownTypes are the tool name prefixes config may disable wholesale.
var KnownTypes = []string{"student", "resource", "match"}

// toolEntry pairs a tool definition with its handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"student_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"student_add": {
		def:     addToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdd },
	},
	"student_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"student_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"student_remove": {
		def:     removeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRemove },
	},
	"resource_add": {
		def:     resourceAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleResourceAdd },
	},
	"resource_list": {
		def:     resourceListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleResourceList },
	},
	"match_find": {
		def:     matchFindToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMatchFind },
	},
	"match_best": {
		def:     matchBestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMatchBest },
	},
	"match_report": {
		def:     matchReportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMatchReport },
	},
}

// AllToolNames lists every registered tool name.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns the names in the list that match no tool.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns the names in the list that match no type.
func ValidateDisabledTypes(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		known := false
		for _, t := range KnownTypes {
			if name == t {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type prefix from a "type_action" tool name.
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns every tool name whose type prefix is listed.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// disabledToolSet resolves config's DisabledTypes and DisabledTools into one
// set of tool names to skip.
func disabledToolSet(cfg *config.Config) map[string]bool {
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}
	return disabled
}

// NewServer builds the MCP server with every enabled tool registered.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"studymatch",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)
	disabled := disabledToolSet(cfg)

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves MCP over stdio until the client disconnects.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	return server.ServeStdio(NewServer(db, cfg, version))
}
