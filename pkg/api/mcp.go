package api

import (
	"fmt"
	"log/slog"

	"github.com/hazyhaar/covidgraph/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the region MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, src Source, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	registerListRegions(srv, src, logger)
	registerSearchRegions(srv, src, logger)
	registerRegionSeries(srv, src, logger)
}

func registerListRegions(srv *server.MCPServer, src Source, logger *slog.Logger) {
	tool := mcp.NewTool("list_regions",
		mcp.WithDescription("List every known COVID-19 reporting region (countries and states/provinces) with its date coverage."),
		mcp.WithString("kind", mcp.Description("Restrict to \"state\" or \"country\"")),
	)

	kit.RegisterMCPTool(srv, tool, kit.Logging(logger, "list_regions")(listRegionsEndpoint(src)),
		func(req mcp.CallToolRequest) (any, error) {
			return &listRegionsReq{Kind: req.GetString("kind", "")}, nil
		})
}

func registerSearchRegions(srv *server.MCPServer, src Source, logger *slog.Logger) {
	tool := mcp.NewTool("search_regions",
		mcp.WithDescription("Find regions whose name or source spelling matches a query (substring or regular expression)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Region name or fragment, e.g. washington")),
	)

	kit.RegisterMCPTool(srv, tool, kit.Logging(logger, "search_regions")(searchRegionsEndpoint(src)),
		func(req mcp.CallToolRequest) (any, error) {
			query := req.GetString("query", "")
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}
			return &searchRegionsReq{Query: query}, nil
		})
}

func registerRegionSeries(srv *server.MCPServer, src Source, logger *slog.Logger) {
	tool := mcp.NewTool("region_series",
		mcp.WithDescription("Daily currently-infected counts (confirmed - deaths - recovered) for one region, oldest first. "+
			"When the query matches several regions the error lists them; call again with choice set to the 1-based index."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Region name or fragment")),
		mcp.WithNumber("choice", mcp.Description("1-based index among ambiguous matches")),
	)

	kit.RegisterMCPTool(srv, tool, kit.Logging(logger, "region_series")(seriesEndpoint(src)),
		func(req mcp.CallToolRequest) (any, error) {
			query := req.GetString("query", "")
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}
			return &seriesReq{Query: query, Choice: req.GetInt("choice", 0)}, nil
		})
}
