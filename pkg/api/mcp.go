package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/monsterxx03/procmaps/pkg/maps"
)

// NewMCPServer builds an MCP server exposing the maps parser as tools,
// so agents can inspect a process's memory layout without shelling out.
func NewMCPServer(version string) *server.MCPServer {
	s := server.NewMCPServer("procmaps", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_maps",
		mcp.WithDescription("List the memory mappings of a process as JSON records"),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("target process id")),
	), handleListMaps)

	s.AddTool(mcp.NewTool("maps_summary",
		mcp.WithDescription("Summarize the memory mappings of a process: region counts by kind and total sizes"),
		mcp.WithNumber("pid", mcp.Required(), mcp.Description("target process id")),
	), handleMapsSummary)

	return s
}

// ServeMCP runs an MCP server over stdio until the client disconnects.
func ServeMCP(version string) error {
	return server.ServeStdio(NewMCPServer(version))
}

func handleListMaps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid, err := req.RequireInt("pid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ms, err := maps.FromPid(pid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pid %d: %v", pid, err)), nil
	}
	return jsonResult(ms)
}

func handleMapsSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid, err := req.RequireInt("pid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ms, err := maps.FromPid(pid)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pid %d: %v", pid, err)), nil
	}
	return jsonResult(ms.Summary())
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
